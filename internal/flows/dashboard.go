package flows

import (
	"context"
	"sync"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// DashboardBackend is the slice of the gateway the dashboard needs.
type DashboardBackend interface {
	ListAppointments(ctx context.Context, patientID int) ([]gateway.Appointment, error)
	ListPrescriptions(ctx context.Context, appointmentID int) ([]gateway.Prescription, error)
}

// DashboardEntry joins an appointment with its prescriptions, when any.
type DashboardEntry struct {
	Appointment   gateway.Appointment    `json:"appointment"`
	Prescriptions []gateway.Prescription `json:"prescriptions"`
}

// DashboardFlow builds the patient's appointment overview.
type DashboardFlow struct {
	backend DashboardBackend
	logger  *logging.Logger
}

// NewDashboardFlow creates a dashboard flow.
func NewDashboardFlow(backend DashboardBackend, logger *logging.Logger) *DashboardFlow {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardFlow{backend: backend, logger: logger}
}

// Load fetches the patient's appointments and, for each completed one,
// its prescriptions. The prescription fetches run concurrently and are
// joined all-settled: one failing appointment degrades to an empty
// prescription list without aborting its siblings. Only the appointment
// list itself is fatal to the view.
func (f *DashboardFlow) Load(ctx context.Context, patientID int) ([]DashboardEntry, error) {
	appointments, err := f.backend.ListAppointments(ctx, patientID)
	if err != nil {
		return nil, err
	}

	entries := make([]DashboardEntry, len(appointments))
	var wg sync.WaitGroup
	for i, appt := range appointments {
		entries[i] = DashboardEntry{
			Appointment:   appt,
			Prescriptions: []gateway.Prescription{},
		}
		if appt.Status != gateway.StatusCompleted {
			continue
		}

		wg.Add(1)
		go func(i, appointmentID int) {
			defer wg.Done()
			prescriptions, err := f.backend.ListPrescriptions(ctx, appointmentID)
			if err != nil {
				f.logger.Warn("prescriptions unavailable for appointment",
					"appointment_id", appointmentID,
					"error", err,
				)
				return
			}
			entries[i].Prescriptions = prescriptions
		}(i, appt.ID)
	}
	wg.Wait()

	return entries, nil
}
