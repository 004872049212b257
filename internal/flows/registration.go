// Package flows orchestrates the portal's user-facing tasks. Each flow
// validates locally, then issues its backend calls strictly in sequence
// whenever a later call depends on an earlier result. Failures surface
// once; nothing is retried automatically.
package flows

import (
	"context"

	"github.com/hcportal/patient-portal/internal/gateway"
	"github.com/hcportal/patient-portal/internal/validate"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// RegistrationStep identifies where a registration wizard stands.
type RegistrationStep string

const (
	// StepAddress is the initial step: the patient enters their address.
	StepAddress RegistrationStep = "address"
	// StepPatient follows a successful address creation.
	StepPatient RegistrationStep = "patient"
)

// RegistrationState is the wizard's serializable intermediate state. It
// carries the server-issued address id between the two submissions.
type RegistrationState struct {
	Step      RegistrationStep `json:"step"`
	AddressID int              `json:"addressId"`
}

// NewRegistrationState returns a wizard at the address step with no
// address linked yet.
func NewRegistrationState() RegistrationState {
	return RegistrationState{Step: StepAddress}
}

// RegistrationBackend is the slice of the gateway registration needs.
type RegistrationBackend interface {
	CreateAddress(ctx context.Context, addr gateway.NewAddress) (int, error)
	CreatePatient(ctx context.Context, p gateway.NewPatient) (*gateway.Patient, error)
}

// RegistrationFlow runs the two-step registration: address first, then the
// patient record referencing it.
type RegistrationFlow struct {
	backend RegistrationBackend
	logger  *logging.Logger
}

// NewRegistrationFlow creates a registration flow.
func NewRegistrationFlow(backend RegistrationBackend, logger *logging.Logger) *RegistrationFlow {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationFlow{backend: backend, logger: logger}
}

// SubmitAddress validates and creates the address, then advances the
// wizard. Every submission creates a fresh address: a resubmission after
// an earlier success overwrites the stored id rather than reusing it. On
// any failure the state is left untouched.
func (f *RegistrationFlow) SubmitAddress(ctx context.Context, state *RegistrationState, addr gateway.NewAddress) error {
	if err := validate.Address(addr); err != nil {
		return err
	}

	id, err := f.backend.CreateAddress(ctx, addr)
	if err != nil {
		return err
	}

	if state.AddressID != 0 && state.AddressID != id {
		f.logger.Info("address resubmitted, replacing linked id",
			"previous_address_id", state.AddressID,
			"address_id", id,
		)
	}
	state.AddressID = id
	state.Step = StepPatient
	return nil
}

// Back returns the wizard to the address step. The already-created address
// id is kept: it is only replaced by a new forward submission.
func (f *RegistrationFlow) Back(state *RegistrationState) {
	state.Step = StepAddress
}

// SubmitPatient validates and creates the patient record against the
// stored address id. An unlinked address is caught by validation before
// any call is made. The address is never rolled back when this step
// fails; the patient simply retries.
func (f *RegistrationFlow) SubmitPatient(ctx context.Context, state *RegistrationState, p gateway.NewPatient) (*gateway.Patient, error) {
	p.AddressID = state.AddressID
	if err := validate.Patient(p); err != nil {
		return nil, err
	}

	patient, err := f.backend.CreatePatient(ctx, p)
	if err != nil {
		return nil, err
	}

	f.logger.Info("registration complete", "patient_id", patient.ID, "address_id", state.AddressID)
	return patient, nil
}
