// Package handlers maps the portal's JSON API onto the flows. Handlers
// translate the error taxonomy into HTTP statuses and patient-facing
// messages; flows never see HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/validate"
)

// FlowMetrics records flow outcomes. Satisfied by the portal metrics.
type FlowMetrics interface {
	ObserveFlow(flow, outcome string)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFlowError renders a flow failure. Validation and remote rejections
// carry their message verbatim; transport and contract failures get the
// generic messages the taxonomy prescribes.
func writeFlowError(w http.ResponseWriter, err error) {
	if validate.IsValidation(err) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch gateway.KindOf(err) {
	case gateway.KindRemoteRejected:
		status := http.StatusBadGateway
		var ge *gateway.Error
		if errors.As(err, &ge) && ge.Status >= 400 && ge.Status < 500 {
			status = ge.Status
		}
		jsonError(w, gateway.UserMessage(err), status)
	case gateway.KindTransport:
		jsonError(w, "could not reach the server", http.StatusServiceUnavailable)
	case gateway.KindContract:
		jsonError(w, gateway.UserMessage(err), http.StatusBadGateway)
	case gateway.KindNotFound:
		jsonError(w, gateway.UserMessage(err), http.StatusNotFound)
	default:
		jsonError(w, "something went wrong", http.StatusInternalServerError)
	}
}

func observe(m FlowMetrics, flow string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ObserveFlow(flow, outcome)
}
