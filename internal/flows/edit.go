package flows

import (
	"context"
	"strings"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/validate"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// EditBackend is the slice of the gateway the edit flow needs.
type EditBackend interface {
	GetAppointment(ctx context.Context, patientID, appointmentID int) (*gateway.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID int, status string) error
	CreatePrescription(ctx context.Context, appointmentID int, medication, dosage string) (*gateway.Prescription, error)
}

// EditRequest is a status change plus an optional prescription.
type EditRequest struct {
	Status     string `json:"status"`
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
}

// EditFlow changes an appointment's status and conditionally issues a
// prescription.
type EditFlow struct {
	backend EditBackend
	logger  *logging.Logger
}

// NewEditFlow creates an edit flow.
func NewEditFlow(backend EditBackend, logger *logging.Logger) *EditFlow {
	if logger == nil {
		logger = logging.Default()
	}
	return &EditFlow{backend: backend, logger: logger}
}

// Get loads one appointment by id from the patient's list.
func (f *EditFlow) Get(ctx context.Context, patientID, appointmentID int) (*gateway.Appointment, error) {
	return f.backend.GetAppointment(ctx, patientID, appointmentID)
}

// Save updates the appointment's status and, only when the new status is
// completed and both prescription fields are filled, creates the
// prescription afterwards. The ordering is load-bearing: a prescription
// must never be creatable for an appointment that is not completed. A
// prescription failure after a successful status update surfaces its
// error; the status change stands.
func (f *EditFlow) Save(ctx context.Context, appointmentID int, req EditRequest) error {
	status := strings.TrimSpace(req.Status)
	switch status {
	case gateway.StatusScheduled, gateway.StatusCompleted, gateway.StatusCancelled:
	case "":
		return &validate.Error{Field: "status", Message: "select a status"}
	default:
		return &validate.Error{Field: "status", Message: "invalid status"}
	}

	if err := f.backend.UpdateAppointmentStatus(ctx, appointmentID, status); err != nil {
		return err
	}

	medication := strings.TrimSpace(req.Medication)
	dosage := strings.TrimSpace(req.Dosage)
	if status == gateway.StatusCompleted && medication != "" && dosage != "" {
		if _, err := f.backend.CreatePrescription(ctx, appointmentID, medication, dosage); err != nil {
			f.logger.Warn("status updated but prescription creation failed",
				"appointment_id", appointmentID,
				"error", err,
			)
			return err
		}
	}

	f.logger.Info("appointment updated", "appointment_id", appointmentID, "status", status)
	return nil
}
