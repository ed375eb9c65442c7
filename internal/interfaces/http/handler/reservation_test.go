package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	bookingapp "github.com/gites/backend/internal/application/booking"
	"github.com/gites/backend/internal/application/apptest"
	dossierapp "github.com/gites/backend/internal/application/dossier"
	"github.com/gites/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gites/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type reservationAPI struct {
	router *gin.Engine
	repo   *apptest.ReservationRepo
}

func newReservationAPI(t *testing.T) *reservationAPI {
	t.Helper()

	repo := apptest.NewReservationRepo()
	auditRepo := apptest.NewAuditRepo()
	txScope := dossierapp.NewNoOpTransactionScope(nil, repo, nil, nil, auditRepo)
	svc := bookingapp.NewReservationService(repo, auditRepo, txScope,
		shared.FixedClock{Instant: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)})

	router := gin.New()
	router.Use(middleware.RequestID())
	api := router.Group("/api/v1")
	NewReservationHandler(svc).RegisterRoutes(api)

	return &reservationAPI{router: router, repo: repo}
}

func (a *reservationAPI) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

var agentHeaders = map[string]string{
	middleware.ActorIDHeader:   "agent-7",
	middleware.ActorRoleHeader: "AGENT",
}

func createReservationBody() map[string]any {
	return map[string]any{
		"logement_id":    uuid.New().String(),
		"check_in":       "2026-07-10T00:00:00Z",
		"check_out":      "2026-07-17T00:00:00Z",
		"tenant_name":    "Marie Dupont",
		"tenant_email":   "marie@example.com",
		"total_rent":     "840.00",
		"occupant_count": 2,
	}
}

func TestReservationHandler_Create(t *testing.T) {
	api := newReservationAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/reservations", createReservationBody(), agentHeaders)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Success bool                           `json:"success"`
		Data    bookingapp.ReservationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "CONFIRMEE", resp.Data.Statut)
	assert.Equal(t, 7, resp.Data.Nights)
}

func TestReservationHandler_CreateRejectsMissingActor(t *testing.T) {
	api := newReservationAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/reservations", createReservationBody(), nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestReservationHandler_CreateRejectsInvalidPayload(t *testing.T) {
	api := newReservationAPI(t)

	body := createReservationBody()
	delete(body, "tenant_name")
	w := api.do(t, http.MethodPost, "/api/v1/reservations", body, agentHeaders)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
}

func TestReservationHandler_CreateConflictOnOverlap(t *testing.T) {
	api := newReservationAPI(t)

	body := createReservationBody()
	w := api.do(t, http.MethodPost, "/api/v1/reservations", body, agentHeaders)
	require.Equal(t, http.StatusCreated, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/reservations", body, agentHeaders)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_CONFLICT")
}

func TestReservationHandler_GetByID(t *testing.T) {
	api := newReservationAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/reservations", createReservationBody(), agentHeaders)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data bookingapp.ReservationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("found", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/reservations/"+created.Data.ID.String(), nil, agentHeaders)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/reservations/"+uuid.NewString(), nil, agentHeaders)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		w := api.do(t, http.MethodGet, "/api/v1/reservations/not-a-uuid", nil, agentHeaders)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReservationHandler_CancelRequiresReason(t *testing.T) {
	api := newReservationAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/reservations", createReservationBody(), agentHeaders)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data bookingapp.ReservationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/v1/reservations/%s/cancel", created.Data.ID)

	w = api.do(t, http.MethodPost, path, map[string]any{}, agentHeaders)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, path, map[string]any{"reason": "desistement"}, agentHeaders)
	require.Equal(t, http.StatusOK, w.Code)
	var cancelled struct {
		Data bookingapp.ReservationResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, "ANNULEE", cancelled.Data.Statut)
}

func TestReservationHandler_ExpireOptionsSweep(t *testing.T) {
	api := newReservationAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/reservations/sweeps/expire-options", nil, agentHeaders)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data ExpireOptionsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.Expired)
}
