package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hcportal/patient-portal/internal/flows"
	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// RegistrationHandler drives the two-step registration wizard. The wizard
// state is persisted per browser session so the address id survives
// between the two requests and across a reload.
type RegistrationHandler struct {
	flow    *flows.RegistrationFlow
	states  *flows.RegistrationStateStore
	logger  *logging.Logger
	metrics FlowMetrics
}

// NewRegistrationHandler creates a registration handler.
func NewRegistrationHandler(flow *flows.RegistrationFlow, states *flows.RegistrationStateStore, logger *logging.Logger, metrics FlowMetrics) *RegistrationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationHandler{flow: flow, states: states, logger: logger, metrics: metrics}
}

// AddressRequest is the first step's form payload.
type AddressRequest struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
}

// PatientRequest is the second step's form payload. The address id is
// taken from the stored wizard state, never from the client.
type PatientRequest struct {
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type wizardResponse struct {
	Step      flows.RegistrationStep `json:"step"`
	AddressID int                    `json:"addressId,omitempty"`
}

// State reports where the wizard currently stands.
// GET /portal/registration
func (h *RegistrationHandler) State(w http.ResponseWriter, r *http.Request) {
	state := h.loadState(w, r)
	if state == nil {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Step: state.Step, AddressID: state.AddressID})
}

// SubmitAddress runs the first step.
// POST /portal/registration/address
func (h *RegistrationHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	state := h.loadState(w, r)
	if state == nil {
		return
	}

	addr := gateway.NewAddress{
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
	}

	if err := h.flow.SubmitAddress(r.Context(), state, addr); err != nil {
		observe(h.metrics, "registration", err)
		writeFlowError(w, err)
		return
	}

	if !h.saveState(w, r, state) {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Step: state.Step, AddressID: state.AddressID})
}

// SubmitPatient runs the second step. On success the wizard state is
// discarded and the client is expected to navigate to login; there is no
// auto-login.
// POST /portal/registration/patient
func (h *RegistrationHandler) SubmitPatient(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	state := h.loadState(w, r)
	if state == nil {
		return
	}

	patient, err := h.flow.SubmitPatient(r.Context(), state, gateway.NewPatient{
		Name:      req.Name,
		CPF:       req.CPF,
		BirthDate: req.BirthDate,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		observe(h.metrics, "registration", err)
		writeFlowError(w, err)
		return
	}

	sid := middleware.SessionID(r.Context())
	if err := h.states.Clear(r.Context(), sid); err != nil {
		h.logger.Warn("failed to clear registration state", "error", err)
	}

	observe(h.metrics, "registration", nil)
	writeJSON(w, http.StatusCreated, map[string]any{
		"patientId": patient.ID,
		"message":   "registration complete",
	})
}

// Back returns the wizard to the address step without discarding the
// already-created address id.
// POST /portal/registration/back
func (h *RegistrationHandler) Back(w http.ResponseWriter, r *http.Request) {
	state := h.loadState(w, r)
	if state == nil {
		return
	}

	h.flow.Back(state)
	if !h.saveState(w, r, state) {
		return
	}
	writeJSON(w, http.StatusOK, wizardResponse{Step: state.Step, AddressID: state.AddressID})
}

// loadState fetches the session's wizard state, starting a fresh wizard
// when none is stored. A nil return means the response is already written.
func (h *RegistrationHandler) loadState(w http.ResponseWriter, r *http.Request) *flows.RegistrationState {
	sid := middleware.SessionID(r.Context())
	state, err := h.states.Load(r.Context(), sid)
	if err != nil {
		h.logger.Error("failed to load registration state", "error", err)
		jsonError(w, "something went wrong", http.StatusInternalServerError)
		return nil
	}
	if state == nil {
		fresh := flows.NewRegistrationState()
		return &fresh
	}
	return state
}

func (h *RegistrationHandler) saveState(w http.ResponseWriter, r *http.Request, state *flows.RegistrationState) bool {
	sid := middleware.SessionID(r.Context())
	if err := h.states.Save(r.Context(), sid, state); err != nil {
		h.logger.Error("failed to persist registration state", "error", err)
		jsonError(w, "something went wrong", http.StatusInternalServerError)
		return false
	}
	return true
}
