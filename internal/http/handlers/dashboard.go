package handlers

import (
	"net/http"

	"github.com/hcportal/patient-portal/internal/flows"
	"github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// DashboardHandler serves the patient's appointment overview.
type DashboardHandler struct {
	flow    *flows.DashboardFlow
	logger  *logging.Logger
	metrics FlowMetrics
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(flow *flows.DashboardFlow, logger *logging.Logger, metrics FlowMetrics) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{flow: flow, logger: logger, metrics: metrics}
}

// Get returns the appointments joined with their prescriptions.
// GET /portal/dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	patient := middleware.PatientFrom(r.Context())

	entries, err := h.flow.Load(r.Context(), patient.ID)
	observe(h.metrics, "dashboard", err)
	if err != nil {
		writeFlowError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient":      map[string]any{"id": patient.ID, "name": patient.Name},
		"appointments": entries,
	})
}
