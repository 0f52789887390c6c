package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"client_api_backend/internal/models"
	"client_api_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubClientService returns err from every call and records what it was given.
type stubClientService struct {
	err        error
	listReq    services.ListClientsRequest
	updateReq  services.UpdateClientRequest
	calls      int
	pingFailed bool
}

func (s *stubClientService) CreateClient(_ context.Context, req services.CreateClientRequest) (*models.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Client{ID: 1, LastName: req.LastName, FirstName: req.FirstName, Email: req.Email, Active: true}, nil
}

func (s *stubClientService) GetClientByID(_ context.Context, id int64) (*models.Client, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Client{ID: id}, nil
}

func (s *stubClientService) GetClients(_ context.Context, req services.ListClientsRequest) (*models.ClientList, error) {
	s.calls++
	s.listReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.ClientList{Clients: []models.Client{}, Total: 0}, nil
}

func (s *stubClientService) UpdateClient(_ context.Context, id int64, req services.UpdateClientRequest) (*models.Client, error) {
	s.calls++
	s.updateReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.Client{ID: id}, nil
}

func (s *stubClientService) DeleteClient(context.Context, int64) error {
	s.calls++
	return s.err
}

func (s *stubClientService) Ping(context.Context) error {
	if s.pingFailed {
		return errors.New("connection refused")
	}
	return nil
}

func newTestEngine(svc services.ClientService) *gin.Engine {
	engine := gin.New()
	h := NewClientHandler(svc)
	engine.POST("/clients", h.CreateClient)
	engine.GET("/clients", h.GetClients)
	engine.GET("/clients/:id", h.GetClientByID)
	engine.PUT("/clients/:id", h.UpdateClient)
	engine.DELETE("/clients/:id", h.DeleteClient)
	return engine
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Fields  []struct {
			Field string `json:"field"`
			Rule  string `json:"rule"`
		} `json:"fields"`
	} `json:"error"`
}

func perform(t *testing.T, engine *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var parsed errorBody
	if w.Code >= 400 && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		code   string
	}{
		"validation": {services.NewValidationError("email", "email", "must be a valid email address"), http.StatusUnprocessableEntity, "VALIDATION_FAILED"},
		"not found":  {services.ErrClientNotFound, http.StatusNotFound, "NOT_FOUND"},
		"duplicate":  {fmt.Errorf("%w: constraint", services.ErrEmailExists), http.StatusBadRequest, "DUPLICATE_EMAIL"},
		"store":      {errors.New("disk full"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			engine := newTestEngine(&stubClientService{err: tc.err})

			w, body := perform(t, engine, http.MethodGet, "/clients/1", "")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestRespondError_InternalDetailsHidden(t *testing.T) {
	engine := newTestEngine(&stubClientService{err: errors.New("pq: password authentication failed")})

	w, _ := perform(t, engine, http.MethodDelete, "/clients/1", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestCreateClient_BindErrors(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
		rule  string
	}{
		"malformed":  {`{"last_name":`, "body", "json"},
		"wrong type": {`{"last_name":"Doe","first_name":"John","email":"j@example.com","active":"yes"}`, "active", "type"},
		"empty":      {"", "body", "required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubClientService{}
			engine := newTestEngine(svc)

			req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Len(t, body.Error.Fields, 1)
			assert.Equal(t, tc.field, body.Error.Fields[0].Field)
			assert.Equal(t, tc.rule, body.Error.Fields[0].Rule)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestCreateClient_Created(t *testing.T) {
	engine := newTestEngine(&stubClientService{})

	w, _ := perform(t, engine, http.MethodPost, "/clients", `{"last_name":"Doe","first_name":"John","email":"john.doe@example.com","extra":"ignored"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var client models.Client
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &client))
	assert.Equal(t, "Doe", client.LastName)
}

func TestInvalidClientID(t *testing.T) {
	svc := &stubClientService{}
	engine := newTestEngine(svc)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w, body := perform(t, engine, method, "/clients/abc", `{}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, method)
		require.Len(t, body.Error.Fields, 1, method)
		assert.Equal(t, "id", body.Error.Fields[0].Field)
	}
	assert.Zero(t, svc.calls)
}

func TestGetClients_QueryParsing(t *testing.T) {
	svc := &stubClientService{}
	engine := newTestEngine(svc)

	w, _ := perform(t, engine, http.MethodGet, "/clients", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.listReq.Skip)
	assert.Equal(t, services.DefaultListLimit, svc.listReq.Limit)
	assert.Nil(t, svc.listReq.Active)

	w, _ = perform(t, engine, http.MethodGet, "/clients?skip=5&limit=20&active=false", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.listReq.Skip)
	assert.Equal(t, 20, svc.listReq.Limit)
	require.NotNil(t, svc.listReq.Active)
	assert.False(t, *svc.listReq.Active)
	assert.JSONEq(t, `{"clients":[],"total":0}`, w.Body.String())
}

func TestGetClients_InvalidQuery(t *testing.T) {
	svc := &stubClientService{}
	engine := newTestEngine(svc)

	w, body := perform(t, engine, http.MethodGet, "/clients?skip=x&limit=y&active=maybe", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var fields []string
	for _, f := range body.Error.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"skip", "limit", "active"}, fields)
	assert.Zero(t, svc.calls)
}

func TestUpdateClient_PresenceReachesService(t *testing.T) {
	svc := &stubClientService{}
	engine := newTestEngine(svc)

	w, _ := perform(t, engine, http.MethodPut, "/clients/3", `{"active":false,"phone":null}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, svc.updateReq.Active.Set)
	assert.False(t, svc.updateReq.Active.Value)
	assert.True(t, svc.updateReq.Phone.Null)
	assert.False(t, svc.updateReq.LastName.Set)
}

func TestDeleteClient_NoContent(t *testing.T) {
	engine := newTestEngine(&stubClientService{})

	w, _ := perform(t, engine, http.MethodDelete, "/clients/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}
