package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/validate"
)

type stubEditBackend struct {
	appointment *gateway.Appointment
	getErr      error

	calls []string

	updateErr       error
	updatedStatus   string
	prescriptionErr error
	prescribed      []string // "medication/dosage"
}

func (s *stubEditBackend) GetAppointment(ctx context.Context, patientID, appointmentID int) (*gateway.Appointment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.appointment, nil
}

func (s *stubEditBackend) UpdateAppointmentStatus(ctx context.Context, appointmentID int, status string) error {
	s.calls = append(s.calls, "update_status")
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedStatus = status
	return nil
}

func (s *stubEditBackend) CreatePrescription(ctx context.Context, appointmentID int, medication, dosage string) (*gateway.Prescription, error) {
	s.calls = append(s.calls, "create_prescription")
	if s.prescriptionErr != nil {
		return nil, s.prescriptionErr
	}
	s.prescribed = append(s.prescribed, medication+"/"+dosage)
	return &gateway.Prescription{ID: 1, Medication: medication, Dosage: dosage}, nil
}

func TestSaveCompletedWithPrescriptionCallsInOrder(t *testing.T) {
	backend := &stubEditBackend{}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status:     gateway.StatusCompleted,
		Medication: " Amoxicillin ",
		Dosage:     "500mg",
	})
	require.NoError(t, err)

	// Status must be updated before the prescription ever exists.
	assert.Equal(t, []string{"update_status", "create_prescription"}, backend.calls)
	assert.Equal(t, gateway.StatusCompleted, backend.updatedStatus)
	assert.Equal(t, []string{"Amoxicillin/500mg"}, backend.prescribed)
}

func TestSaveCompletedWithoutMedicationSkipsPrescription(t *testing.T) {
	backend := &stubEditBackend{}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status: gateway.StatusCompleted,
		Dosage: "500mg",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"update_status"}, backend.calls)
}

func TestSaveCompletedWithBlankDosageSkipsPrescription(t *testing.T) {
	backend := &stubEditBackend{}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status:     gateway.StatusCompleted,
		Medication: "Amoxicillin",
		Dosage:     "   ",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"update_status"}, backend.calls)
}

func TestSaveNonCompletedNeverPrescribes(t *testing.T) {
	backend := &stubEditBackend{}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status:     gateway.StatusCancelled,
		Medication: "Amoxicillin",
		Dosage:     "500mg",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"update_status"}, backend.calls)
	assert.Equal(t, gateway.StatusCancelled, backend.updatedStatus)
}

func TestSaveStatusFailureStopsBeforePrescription(t *testing.T) {
	backend := &stubEditBackend{updateErr: assert.AnError}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status:     gateway.StatusCompleted,
		Medication: "Amoxicillin",
		Dosage:     "500mg",
	})
	require.Error(t, err)

	assert.Equal(t, []string{"update_status"}, backend.calls)
}

func TestSavePrescriptionFailureSurfacesButStatusStands(t *testing.T) {
	backend := &stubEditBackend{prescriptionErr: assert.AnError}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{
		Status:     gateway.StatusCompleted,
		Medication: "Amoxicillin",
		Dosage:     "500mg",
	})
	require.Error(t, err)

	// Both calls happened; the status change is not rolled back.
	assert.Equal(t, []string{"update_status", "create_prescription"}, backend.calls)
	assert.Equal(t, gateway.StatusCompleted, backend.updatedStatus)
}

func TestSaveInvalidStatus(t *testing.T) {
	backend := &stubEditBackend{}
	flow := NewEditFlow(backend, nil)

	err := flow.Save(context.Background(), 3, EditRequest{Status: "DONE"})
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
	assert.Empty(t, backend.calls)

	err = flow.Save(context.Background(), 3, EditRequest{})
	require.Error(t, err)
	assert.True(t, validate.IsValidation(err))
}

func TestGetPassesThrough(t *testing.T) {
	backend := &stubEditBackend{appointment: &gateway.Appointment{ID: 3, Status: gateway.StatusScheduled}}
	flow := NewEditFlow(backend, nil)

	appt, err := flow.Get(context.Background(), 12, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, appt.ID)

	backend.getErr = assert.AnError
	_, err = flow.Get(context.Background(), 12, 3)
	assert.ErrorIs(t, err, assert.AnError)
}
