// Package validate holds the pure form validators run before any backend
// call. Each validator short-circuits on the first violated rule and
// returns its message; no I/O happens here.
package validate

import (
	"regexp"
	"strings"

	"github.com/hcportal/patient-portal/internal/gateway"
)

// Error is a single violated rule on a named field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	_, ok := err.(*Error)
	return ok
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Address checks the first registration step's payload.
func Address(a gateway.NewAddress) error {
	if strings.TrimSpace(a.Street) == "" {
		return &Error{Field: "street", Message: "street is required"}
	}
	if strings.TrimSpace(a.Number) == "" {
		return &Error{Field: "number", Message: "number is required"}
	}
	if strings.TrimSpace(a.Neighborhood) == "" {
		return &Error{Field: "neighborhood", Message: "neighborhood is required"}
	}
	if strings.TrimSpace(a.City) == "" {
		return &Error{Field: "city", Message: "city is required"}
	}
	state := strings.TrimSpace(a.State)
	if len(state) != 2 || !isLetters(state) {
		return &Error{Field: "state", Message: "state must be 2 letters (e.g. SP)"}
	}
	if len(digits(a.PostalCode)) != 8 {
		return &Error{Field: "postal_code", Message: "postal code must have exactly 8 digits"}
	}
	return nil
}

// Patient checks the second registration step's payload. The address-id
// rule guards the two-step ordering: a patient may only reference an
// address the backend has already issued.
func Patient(p gateway.NewPatient) error {
	if len(strings.TrimSpace(p.Name)) < 3 {
		return &Error{Field: "name", Message: "name must have at least 3 characters"}
	}
	if len(digits(p.CPF)) != 11 {
		return &Error{Field: "cpf", Message: "cpf must have exactly 11 digits"}
	}
	if strings.TrimSpace(p.BirthDate) == "" {
		return &Error{Field: "birth_date", Message: "birth date is required"}
	}
	if n := len(digits(p.Phone)); n < 10 || n > 11 {
		return &Error{Field: "phone", Message: "phone must have 10 or 11 digits"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(p.Email)) {
		return &Error{Field: "email", Message: "email is invalid"}
	}
	if p.AddressID <= 0 {
		return &Error{Field: "address_id", Message: "address not linked"}
	}
	return nil
}

// Login checks the authentication payload.
func Login(cpf, email string) error {
	if len(digits(cpf)) != 11 {
		return &Error{Field: "cpf", Message: "cpf must have exactly 11 digits"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &Error{Field: "email", Message: "email is invalid"}
	}
	return nil
}

// Appointment checks a fully assembled scheduling payload.
func Appointment(a gateway.NewAppointment) error {
	if a.PatientID <= 0 {
		return &Error{Field: "patient_id", Message: "patient not authenticated"}
	}
	if a.DoctorID <= 0 {
		return &Error{Field: "doctor_id", Message: "select a doctor"}
	}
	if strings.TrimSpace(a.DateTime) == "" {
		return &Error{Field: "date_time", Message: "select a date and time"}
	}
	if strings.TrimSpace(a.Specialty) == "" {
		return &Error{Field: "specialty", Message: "specialty is required"}
	}
	return nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLetters(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') {
			return false
		}
	}
	return true
}
