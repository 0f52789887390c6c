package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"client_api_backend/internal/services"
	"client_api_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err), "CreateClient: Failed to bind JSON")
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "CreateClient: Error from clientService.CreateClient")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients handles listing clients with pagination and the optional active filter.
func (h *ClientHandler) GetClients(c *gin.Context) {
	req, err := parseListQuery(c)
	if err != nil {
		h.respondError(c, err, "GetClients: Invalid query parameters")
		return
	}

	list, err := h.clientService.GetClients(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err, "GetClients: Error from clientService.GetClients")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, err := parseClientID(c)
	if err != nil {
		h.respondError(c, err, "GetClientByID: Invalid client ID")
		return
	}

	client, err := h.clientService.GetClientByID(c.Request.Context(), clientID)
	if err != nil {
		h.respondError(c, err, "GetClientByID: Error from clientService.GetClientByID for ID "+utils.Int64ToStr(clientID))
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles a partial update of a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, err := parseClientID(c)
	if err != nil {
		h.respondError(c, err, "UpdateClient: Invalid client ID")
		return
	}

	var req services.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, bindError(err), "UpdateClient: Failed to bind JSON for ID "+utils.Int64ToStr(clientID))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		h.respondError(c, err, "UpdateClient: Error from clientService.UpdateClient for ID "+utils.Int64ToStr(clientID))
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, err := parseClientID(c)
	if err != nil {
		h.respondError(c, err, "DeleteClient: Invalid client ID")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		h.respondError(c, err, "DeleteClient: Error from clientService.DeleteClient for ID "+utils.Int64ToStr(clientID))
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps a service error to exactly one HTTP response.
func (h *ClientHandler) respondError(c *gin.Context, err error, logMessage string) {
	fields := map[string]interface{}{"request_id": c.GetString(utils.RequestIDKey)}

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.LogWarn(err, logMessage, fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeValidationFailed, "Input validation failed.", "").WithFields(verr.Fields))
	case errors.Is(err, services.ErrClientNotFound):
		utils.LogWarn(err, logMessage, fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	case errors.Is(err, services.ErrEmailExists):
		utils.LogWarn(err, logMessage, fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeDuplicateEmail, "A client with this email already exists.", ""))
	default:
		utils.LogError(err, logMessage, fields)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Internal server error.", ""))
	}
}

func parseClientID(c *gin.Context) (int64, error) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		return 0, services.NewValidationError("id", "int", "must be an integer")
	}
	return clientID, nil
}

func parseListQuery(c *gin.Context) (services.ListClientsRequest, error) {
	req := services.ListClientsRequest{Skip: 0, Limit: services.DefaultListLimit}
	verr := &services.ValidationError{}

	if raw, ok := c.GetQuery("skip"); ok {
		skip, err := utils.StrToInt(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, utils.FieldError{Field: "skip", Rule: "int", Message: "must be an integer"})
		}
		req.Skip = skip
	}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := utils.StrToInt(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, utils.FieldError{Field: "limit", Rule: "int", Message: "must be an integer"})
		}
		req.Limit = limit
	}
	if raw, ok := c.GetQuery("active"); ok {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, utils.FieldError{Field: "active", Rule: "bool", Message: "must be a boolean"})
		}
		req.Active = &active
	}

	if len(verr.Fields) > 0 {
		return req, verr
	}
	return req, nil
}

// bindError turns a JSON decoding failure into a ValidationError.
func bindError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return services.NewValidationError(field, "type", "must be of type "+typeErr.Type.String())
	case errors.Is(err, io.EOF):
		return services.NewValidationError("body", "required", "request body is required")
	}
	return services.NewValidationError("body", "json", "malformed JSON: "+err.Error())
}
