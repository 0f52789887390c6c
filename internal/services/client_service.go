package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"client_api_backend/internal/models"
	"client_api_backend/internal/repositories"
	"client_api_backend/pkg/utils"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrClientValidation = errors.New("client data validation error")
)

// DefaultListLimit is the page size used when the caller gives none.
const DefaultListLimit = 100

// --- Client DTOs ---
type CreateClientRequest struct {
	LastName  string  `json:"last_name" validate:"required,min=2,max=50"`
	FirstName string  `json:"first_name" validate:"required,min=2,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone" validate:"omitnil,min=8,max=15"`
	Active    *bool   `json:"active"` // defaults to true
}

// UpdateClientRequest is a partial update: only keys present in the payload
// are validated and applied.
type UpdateClientRequest struct {
	LastName  models.Optional[string] `json:"last_name"`
	FirstName models.Optional[string] `json:"first_name"`
	Email     models.Optional[string] `json:"email"`
	Phone     models.Optional[string] `json:"phone"` // null clears the phone
	Active    models.Optional[bool]   `json:"active"`
}

type ListClientsRequest struct {
	Skip   int   `json:"skip" validate:"min=0"`
	Limit  int   `json:"limit" validate:"min=1,max=100"`
	Active *bool `json:"active"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error)
	GetClientByID(ctx context.Context, clientID int64) (*models.Client, error)
	GetClients(ctx context.Context, req ListClientsRequest) (*models.ClientList, error)
	UpdateClient(ctx context.Context, clientID int64, req UpdateClientRequest) (*models.Client, error)
	DeleteClient(ctx context.Context, clientID int64) error
	Ping(ctx context.Context) error
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: repo}
}

func (r *CreateClientRequest) normalize() {
	r.LastName = strings.TrimSpace(r.LastName)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = utils.TrimPtr(r.Phone)
}

// Validate normalizes whitespace and checks every field constraint.
func (r *CreateClientRequest) Validate() error {
	r.normalize()
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Fields: fieldErrors(err, "body")}
	}
	return nil
}

var updateFieldRules = map[string]string{
	"last_name":  "min=2,max=50",
	"first_name": "min=2,max=50",
	"email":      "email",
	"phone":      "min=8,max=15",
}

// Validate checks only the fields present in the request and returns the
// patch to apply.
func (r *UpdateClientRequest) Validate() (models.ClientPatch, error) {
	var fields []utils.FieldError

	text := func(name string, opt models.Optional[string], nullable bool) models.Optional[string] {
		if !opt.Set {
			return opt
		}
		if opt.Null {
			if !nullable {
				fields = append(fields, utils.FieldError{Field: name, Rule: "not_null", Message: "cannot be null"})
			}
			return opt
		}
		opt.Value = strings.TrimSpace(opt.Value)
		if err := validate.Var(opt.Value, updateFieldRules[name]); err != nil {
			fields = append(fields, fieldErrors(err, name)...)
		}
		return opt
	}

	patch := models.ClientPatch{
		LastName:  text("last_name", r.LastName, false),
		FirstName: text("first_name", r.FirstName, false),
		Email:     text("email", r.Email, false),
		Phone:     text("phone", r.Phone, true),
		Active:    r.Active,
	}
	if r.Active.Set && r.Active.Null {
		fields = append(fields, utils.FieldError{Field: "active", Rule: "not_null", Message: "cannot be null"})
	}

	if len(fields) > 0 {
		return models.ClientPatch{}, &ValidationError{Fields: fields}
	}
	return patch, nil
}

// Validate checks pagination bounds.
func (r *ListClientsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &ValidationError{Fields: fieldErrors(err, "query")}
	}
	return nil
}

func (s *clientService) CreateClient(ctx context.Context, req CreateClientRequest) (*models.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	client := &models.Client{
		LastName:  req.LastName,
		FirstName: req.FirstName,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    active,
	}

	created, err := s.clientRepo.CreateClient(ctx, client)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	utils.LogDebug("Client created", map[string]interface{}{"client_id": created.ID})
	return created, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	return client, nil
}

func (s *clientService) GetClients(ctx context.Context, req ListClientsRequest) (*models.ClientList, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	clients, totalCount, err := s.clientRepo.GetClients(ctx, models.ClientFilter{
		Skip:   req.Skip,
		Limit:  req.Limit,
		Active: req.Active,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get clients: %w", err)
	}
	return &models.ClientList{Clients: clients, Total: totalCount}, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID int64, req UpdateClientRequest) (*models.Client, error) {
	patch, err := req.Validate()
	if err != nil {
		return nil, err
	}

	client, err := s.clientRepo.UpdateClient(ctx, clientID, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrEmailExists, err)
		}
		return nil, fmt.Errorf("failed to update client in repository: %w", err)
	}
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID int64) error {
	err := s.clientRepo.DeleteClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClientNotFound
		}
		return fmt.Errorf("failed to delete client: %w", err)
	}
	utils.LogDebug("Client deleted", map[string]interface{}{"client_id": clientID})
	return nil
}

// Ping reports whether the backing store is reachable.
func (s *clientService) Ping(ctx context.Context) error {
	return s.clientRepo.Ping(ctx)
}
