package flows

import (
	"context"
	"strings"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/validate"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// SpecialtyNotInformed is substituted when the selected doctor carries no
// specialty; scheduling never fails over a missing label.
const SpecialtyNotInformed = "not informed"

// timeSlots is the fixed offer. The portal performs no availability or
// conflict checking; double-booking prevention is entirely the backend's.
var timeSlots = []string{"08:00", "09:00", "10:00", "14:00", "15:00", "16:00"}

// TimeSlots returns the bookable time options.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// SchedulingBackend is the slice of the gateway scheduling needs.
type SchedulingBackend interface {
	ListDoctors(ctx context.Context) ([]gateway.Doctor, error)
	CreateAppointment(ctx context.Context, appt gateway.NewAppointment) error
}

// ScheduleRequest is a patient's confirmed selection.
type ScheduleRequest struct {
	DoctorID int    `json:"doctorId"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM, one of TimeSlots
}

// SchedulingFlow books a consultation with a chosen doctor.
type SchedulingFlow struct {
	backend SchedulingBackend
	logger  *logging.Logger
}

// NewSchedulingFlow creates a scheduling flow.
func NewSchedulingFlow(backend SchedulingBackend, logger *logging.Logger) *SchedulingFlow {
	if logger == nil {
		logger = logging.Default()
	}
	return &SchedulingFlow{backend: backend, logger: logger}
}

// Doctors fetches the bookable doctors.
func (f *SchedulingFlow) Doctors(ctx context.Context) ([]gateway.Doctor, error) {
	return f.backend.ListDoctors(ctx)
}

// Schedule assembles and submits the appointment payload. The presence of
// every field is re-checked here regardless of what the UI gated: a hidden
// step is a presentation convenience, not a data guarantee. The specialty
// label is derived from the selected doctor, falling back to the
// not-informed placeholder.
func (f *SchedulingFlow) Schedule(ctx context.Context, patientID int, req ScheduleRequest) error {
	if patientID <= 0 || req.DoctorID <= 0 || strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return &validate.Error{Field: "form", Message: "fill all fields"}
	}

	appt := gateway.NewAppointment{
		DateTime:  req.Date + "T" + req.Time + ":00.000",
		Status:    gateway.StatusScheduled,
		Specialty: f.specialtyFor(ctx, req.DoctorID),
		PatientID: patientID,
		DoctorID:  req.DoctorID,
	}

	if err := validate.Appointment(appt); err != nil {
		return err
	}

	if err := f.backend.CreateAppointment(ctx, appt); err != nil {
		return err
	}

	f.logger.Info("appointment scheduled",
		"patient_id", patientID,
		"doctor_id", req.DoctorID,
		"date_time", appt.DateTime,
	)
	return nil
}

// specialtyFor resolves the selected doctor's specialty from the listing.
// A failed lookup degrades to the placeholder; the backend still validates
// the doctor id itself on creation.
func (f *SchedulingFlow) specialtyFor(ctx context.Context, doctorID int) string {
	doctors, err := f.backend.ListDoctors(ctx)
	if err != nil {
		f.logger.Warn("doctor listing unavailable, using specialty placeholder", "doctor_id", doctorID, "error", err)
		return SpecialtyNotInformed
	}
	for _, d := range doctors {
		if d.ID == doctorID {
			if s := strings.TrimSpace(d.Specialty); s != "" {
				return s
			}
			break
		}
	}
	return SpecialtyNotInformed
}
