// Package gateway is the only component that talks to the clinic backend.
// It wraps every remote capability in a typed operation, normalizes request
// fields at the wire boundary and classifies failures (see errors.go).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hcportal/patient-portal/pkg/logging"
)

// Metrics receives one observation per backend call.
type Metrics interface {
	ObserveBackend(op, outcome string, seconds float64)
}

// Client is an HTTP client for the clinic backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
	metrics    Metrics
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics registers a metrics sink for backend observations.
func WithMetrics(m Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTimeout sets the transport timeout for backend calls.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a clinic backend client.
// baseURL is the backend root (e.g. "http://localhost:8081"), no trailing slash.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Default(),
		tracer: otel.Tracer("portal.internal.gateway"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login authenticates a patient by CPF and email. CPF is digit-stripped and
// email lower-cased before transmission.
func (c *Client) Login(ctx context.Context, cpf, email string) (*Patient, error) {
	body := map[string]string{
		"cpf":   digits(cpf),
		"email": normalizeEmail(email),
	}

	var patient Patient
	if err := c.call(ctx, "login", http.MethodPost, "/login", body, &patient, "login failed"); err != nil {
		return nil, err
	}
	if patient.ID <= 0 {
		return nil, contractViolation("login", "invalid data from server")
	}
	return &patient, nil
}

// CreateAddress persists a standalone address and returns its server-issued
// identifier. The identifier must exist before any patient references it.
func (c *Client) CreateAddress(ctx context.Context, addr NewAddress) (int, error) {
	body := map[string]any{
		"logradouro":  strings.TrimSpace(addr.Street),
		"numero":      strings.TrimSpace(addr.Number),
		"complemento": nullableString(addr.Complement),
		"bairro":      strings.TrimSpace(addr.Neighborhood),
		"cidade":      strings.TrimSpace(addr.City),
		"estado":      strings.ToUpper(strings.TrimSpace(addr.State)),
		"cep":         digits(addr.PostalCode),
	}

	var resp struct {
		ID int `json:"idEndereco"`
	}
	if err := c.call(ctx, "create_address", http.MethodPost, "/enderecos/criar", body, &resp, "could not create address"); err != nil {
		return 0, err
	}
	if resp.ID <= 0 {
		return 0, contractViolation("create_address", "address id not returned by the server")
	}
	return resp.ID, nil
}

// CreatePatient completes registration by creating the patient record that
// references a previously created address.
func (c *Client) CreatePatient(ctx context.Context, p NewPatient) (*Patient, error) {
	body := map[string]any{
		"nome":           strings.TrimSpace(p.Name),
		"cpf":            digits(p.CPF),
		"dataNascimento": p.BirthDate,
		"telefone":       digits(p.Phone),
		"email":          normalizeEmail(p.Email),
		"idEndereco":     p.AddressID,
	}

	var patient Patient
	if err := c.call(ctx, "create_patient", http.MethodPost, "/pacientes/criar", body, &patient, "could not complete registration"); err != nil {
		return nil, err
	}
	if patient.ID <= 0 {
		return nil, contractViolation("create_patient", "patient id not returned by the server")
	}
	return &patient, nil
}

// ListDoctors fetches the bookable doctors.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	var doctors []Doctor
	if err := c.call(ctx, "list_doctors", http.MethodGet, "/medicos/listar", nil, &doctors, "could not load doctors"); err != nil {
		return nil, err
	}
	return doctors, nil
}

// ListAppointments fetches every appointment belonging to a patient.
func (c *Client) ListAppointments(ctx context.Context, patientID int) ([]Appointment, error) {
	var appointments []Appointment
	path := fmt.Sprintf("/consultas/consultaPaciente/%d", patientID)
	if err := c.call(ctx, "list_appointments", http.MethodGet, path, nil, &appointments, "could not load appointments"); err != nil {
		return nil, err
	}
	return appointments, nil
}

// GetAppointment resolves a single appointment by id. The backend exposes no
// single-resource endpoint, so this fetches the patient's list and scans it.
func (c *Client) GetAppointment(ctx context.Context, patientID, appointmentID int) (*Appointment, error) {
	appointments, err := c.ListAppointments(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for i := range appointments {
		if appointments[i].ID == appointmentID {
			return &appointments[i], nil
		}
	}
	return nil, notFound("get_appointment", "appointment not found")
}

// CreateAppointment schedules a consultation.
func (c *Client) CreateAppointment(ctx context.Context, appt NewAppointment) error {
	return c.call(ctx, "create_appointment", http.MethodPost, "/consultas/criar", appt, nil, "could not create appointment")
}

// UpdateAppointmentStatus transitions an appointment to a new status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, appointmentID int, status string) error {
	body := map[string]any{
		"idConsulta": appointmentID,
		"status":     status,
	}
	return c.call(ctx, "update_appointment", http.MethodPut, "/consultas/atualizar", body, nil, "could not update appointment")
}

// CreatePrescription issues a prescription for an appointment.
func (c *Client) CreatePrescription(ctx context.Context, appointmentID int, medication, dosage string) (*Prescription, error) {
	body := map[string]any{
		"idConsulta":  appointmentID,
		"medicamento": strings.TrimSpace(medication),
		"dosagem":     strings.TrimSpace(dosage),
	}

	var prescription Prescription
	if err := c.call(ctx, "create_prescription", http.MethodPost, "/receitas/criar", body, &prescription, "could not create prescription"); err != nil {
		return nil, err
	}
	if prescription.ID <= 0 {
		return nil, contractViolation("create_prescription", "prescription id not returned by the server")
	}
	return &prescription, nil
}

// ListPrescriptions fetches the prescriptions issued for an appointment.
// A non-success status means "no prescription yet" and yields an empty
// list, never an error; only transport failures propagate.
func (c *Client) ListPrescriptions(ctx context.Context, appointmentID int) ([]Prescription, error) {
	op := "list_prescriptions"
	path := fmt.Sprintf("/receitas/receitaConsulta/%d", appointmentID)

	ctx, span := c.tracer.Start(ctx, "gateway."+op)
	defer span.End()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: %s: create request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.observe(op, "transport", start)
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("no prescriptions for appointment", "appointment_id", appointmentID, "status", resp.StatusCode)
		c.observe(op, "empty", start)
		return []Prescription{}, nil
	}

	var prescriptions []Prescription
	if err := json.NewDecoder(resp.Body).Decode(&prescriptions); err != nil {
		span.RecordError(err)
		c.observe(op, "contract", start)
		return nil, contractViolation(op, "invalid data from server")
	}
	if prescriptions == nil {
		prescriptions = []Prescription{}
	}
	c.observe(op, "ok", start)
	return prescriptions, nil
}

// call performs one backend request and classifies the outcome. out may be
// nil when the operation's response body is irrelevant.
func (c *Client) call(ctx context.Context, op, method, path string, payload, out any, fallback string) error {
	ctx, span := c.tracer.Start(ctx, "gateway."+op)
	defer span.End()
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("gateway: %s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("gateway: %s: create request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.observe(op, "transport", start)
		c.logger.Warn("backend unreachable", "op", op, "error", err)
		return transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractMessage(resp.Body)
		c.observe(op, "rejected", start)
		c.logger.Info("backend rejected request", "op", op, "status", resp.StatusCode, "message", message)
		return remoteRejected(op, resp.StatusCode, message, fallback)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			c.observe(op, "contract", start)
			return contractViolation(op, "invalid data from server")
		}
	}

	c.observe(op, "ok", start)
	return nil
}

func (c *Client) observe(op, outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.ObserveBackend(op, outcome, time.Since(start).Seconds())
}

// extractMessage pulls a human-readable reason out of an error response.
// The backend sometimes answers {"message": ...} or {"error": ...} and
// sometimes plain text.
func extractMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &structured); err == nil {
		if structured.Message != "" {
			return strings.TrimSpace(structured.Message)
		}
		if structured.Error != "" {
			return strings.TrimSpace(structured.Error)
		}
	}
	return strings.TrimSpace(string(data))
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

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nullableString maps an empty optional field to JSON null, matching what
// the backend expects for complemento.
func nullableString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
