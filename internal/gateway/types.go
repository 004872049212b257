package gateway

// Appointment status tokens as the backend transmits them.
const (
	StatusScheduled = "AGENDADA"
	StatusCompleted = "REALIZADA"
	StatusCancelled = "CANCELADA"
)

// Address is a patient's address as the backend returns it.
type Address struct {
	ID           int    `json:"idEndereco"`
	Street       string `json:"logradouro"`
	Number       string `json:"numero"`
	Complement   string `json:"complemento,omitempty"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"estado"`
	PostalCode   string `json:"cep"`
}

// Patient is the authenticated patient record, including the owned address.
type Patient struct {
	ID        int     `json:"idPaciente"`
	Name      string  `json:"nome"`
	CPF       string  `json:"cpf"`
	BirthDate string  `json:"dataNascimento"`
	Phone     string  `json:"telefone"`
	Email     string  `json:"email"`
	Address   Address `json:"endereco"`
}

// Doctor is a bookable doctor from the listing endpoint.
type Doctor struct {
	ID        int    `json:"idMedico"`
	Name      string `json:"nome"`
	CRM       string `json:"crm,omitempty"`
	Specialty string `json:"especialidade"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"telefone,omitempty"`
}

// PatientRef identifies the owning patient on an appointment.
type PatientRef struct {
	ID   int    `json:"idPaciente"`
	Name string `json:"nome"`
}

// DoctorRef identifies the assigned doctor on an appointment.
type DoctorRef struct {
	ID   int    `json:"idMedico"`
	Name string `json:"nome"`
}

// Appointment is a scheduled consultation. Status is empty when the
// backend has not set one.
type Appointment struct {
	ID        int        `json:"idConsulta"`
	DateTime  string     `json:"dataHora"`
	Status    string     `json:"status"`
	Specialty string     `json:"areaMedica"`
	Patient   PatientRef `json:"paciente"`
	Doctor    DoctorRef  `json:"medico"`
}

// AppointmentRef identifies the issuing appointment on a prescription.
type AppointmentRef struct {
	ID int `json:"idConsulta"`
}

// Prescription is issued when an appointment is completed.
type Prescription struct {
	ID          int             `json:"idReceita"`
	Medication  string          `json:"medicamento"`
	Dosage      string          `json:"dosagem"`
	IssuedAt    string          `json:"dataEmissao,omitempty"`
	Appointment *AppointmentRef `json:"consulta,omitempty"`
}

// NewAddress is the payload for creating an address before the patient
// record that will own it exists.
type NewAddress struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	PostalCode   string
}

// NewPatient is the payload for the second registration step. AddressID
// must come from a prior CreateAddress call.
type NewPatient struct {
	Name      string
	CPF       string
	BirthDate string
	Phone     string
	Email     string
	AddressID int
}

// NewAppointment is the payload for scheduling a consultation.
type NewAppointment struct {
	DateTime  string `json:"dataHora"`
	Status    string `json:"status"`
	Specialty string `json:"areaMedica"`
	PatientID int    `json:"idPaciente"`
	DoctorID  int    `json:"idMedico"`
}
