package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hcportal/patient-portal/internal/flows"
	"github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// ScheduleHandler serves the scheduling surface: doctors, slots and
// appointment creation.
type ScheduleHandler struct {
	flow    *flows.SchedulingFlow
	logger  *logging.Logger
	metrics FlowMetrics
}

// NewScheduleHandler creates a schedule handler.
func NewScheduleHandler(flow *flows.SchedulingFlow, logger *logging.Logger, metrics FlowMetrics) *ScheduleHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleHandler{flow: flow, logger: logger, metrics: metrics}
}

// Doctors lists the bookable doctors.
// GET /portal/doctors
func (h *ScheduleHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.flow.Doctors(r.Context())
	if err != nil {
		writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// Slots lists the fixed time options.
// GET /portal/slots
func (h *ScheduleHandler) Slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"slots": flows.TimeSlots()})
}

// Create schedules an appointment for the authenticated patient.
// POST /portal/appointments
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req flows.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	patient := middleware.PatientFrom(r.Context())
	err := h.flow.Schedule(r.Context(), patient.ID, req)
	observe(h.metrics, "scheduling", err)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "appointment scheduled"})
}
