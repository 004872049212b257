package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/internal/session"
	"github.com/hcportal/patient-portal/internal/validate"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// AuthBackend authenticates patients against the clinic backend.
type AuthBackend interface {
	Login(ctx context.Context, cpf, email string) (*gateway.Patient, error)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	backend  AuthBackend
	sessions *session.Store
	logger   *logging.Logger
	metrics  FlowMetrics
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(backend AuthBackend, sessions *session.Store, logger *logging.Logger, metrics FlowMetrics) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{backend: backend, sessions: sessions, logger: logger, metrics: metrics}
}

// LoginRequest is the login form payload.
type LoginRequest struct {
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// Login authenticates the patient and overwrites the session snapshot.
// POST /portal/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := validate.Login(req.CPF, req.Email); err != nil {
		observe(h.metrics, "login", err)
		writeFlowError(w, err)
		return
	}

	patient, err := h.backend.Login(r.Context(), req.CPF, req.Email)
	if err != nil {
		observe(h.metrics, "login", err)
		writeFlowError(w, err)
		return
	}

	sid := middleware.SessionID(r.Context())
	if err := h.sessions.Save(r.Context(), sid, patient); err != nil {
		h.logger.Error("failed to persist session", "error", err, "patient_id", patient.ID)
		observe(h.metrics, "login", err)
		jsonError(w, "something went wrong", http.StatusInternalServerError)
		return
	}

	h.logger.Info("patient logged in", "patient_id", patient.ID)
	observe(h.metrics, "login", nil)
	writeJSON(w, http.StatusOK, patient)
}

// Logout clears the session unconditionally.
// POST /portal/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r.Context())
	if err := h.sessions.Clear(r.Context(), sid); err != nil {
		h.logger.Error("failed to clear session", "error", err)
		jsonError(w, "something went wrong", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
