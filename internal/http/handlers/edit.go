package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hcportal/patient-portal/internal/flows"
	"github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// EditHandler serves loading and saving of a single appointment.
type EditHandler struct {
	flow    *flows.EditFlow
	logger  *logging.Logger
	metrics FlowMetrics
}

// NewEditHandler creates an edit handler.
func NewEditHandler(flow *flows.EditFlow, logger *logging.Logger, metrics FlowMetrics) *EditHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &EditHandler{flow: flow, logger: logger, metrics: metrics}
}

// Get loads one appointment by id.
// GET /portal/appointments/{id}
func (h *EditHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		jsonError(w, "appointment not found", http.StatusNotFound)
		return
	}

	patient := middleware.PatientFrom(r.Context())
	appointment, err := h.flow.Get(r.Context(), patient.ID, id)
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

// Save applies a status change and, when applicable, issues a
// prescription.
// PUT /portal/appointments/{id}
func (h *EditHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		jsonError(w, "appointment not found", http.StatusNotFound)
		return
	}

	var req flows.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	err = h.flow.Save(r.Context(), id, req)
	observe(h.metrics, "edit", err)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "appointment updated"})
}
