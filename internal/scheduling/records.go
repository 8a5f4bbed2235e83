package scheduling

import (
	"time"

	"clinic-scheduling-server/internal/models"
)

// ProfessionalRecord is a professional with the ids of its appointments.
type ProfessionalRecord struct {
	models.Professional
	Appointments []string `json:"appointments"`
}

// ProfessionalWithAppointments is a professional with its appointments resolved inline.
type ProfessionalWithAppointments struct {
	models.Professional
	Appointments []models.Appointment `json:"appointments"`
}

// PatientRecord is a patient with the ids of its appointments.
type PatientRecord struct {
	models.Patient
	Appointments []string `json:"appointments"`
}

// AppointmentDetail is an appointment with the patient resolved inline.
// PatientDetails is nil when the appointment has no patient or the patient is gone.
type AppointmentDetail struct {
	models.Appointment
	PatientDetails *models.Patient `json:"patientDetails"`
}

// Booking is the result of CreateAppointment.
type Booking struct {
	Appointment  models.Appointment `json:"appointment"`
	Patient      PatientRecord      `json:"patient"`
	Professional ProfessionalRecord `json:"professional"`
}

// AppointmentEdit is the result of UpdateAppointment. Patient is nil when the
// appointment had no patient to update.
type AppointmentEdit struct {
	Appointment models.Appointment `json:"appointment"`
	Patient     *models.Patient    `json:"patient"`
}

// ProfessionalInput carries the fields of a professional registration.
type ProfessionalInput struct {
	Email     string
	Name      string
	Specialty string
}

// ProfessionalUpdate overwrites the non-empty fields.
type ProfessionalUpdate struct {
	Name      string
	Specialty string
}

// PatientInput describes a patient. On update, empty fields are left unchanged.
type PatientInput struct {
	Name             string
	DateOfBirth      time.Time
	CurrentTreatment string
}

// ProfessionalRef points at a professional by id, or by email when ID is empty.
type ProfessionalRef struct {
	ID    string
	Email string
}

// CreateAppointmentInput is a booking request.
type CreateAppointmentInput struct {
	Date         time.Time
	Time         string
	Professional ProfessionalRef
	Patient      PatientInput
}

// UpdateAppointmentInput edits an appointment and its patient in one call.
// PatientID defaults to the appointment's linked patient.
type UpdateAppointmentInput struct {
	Date      time.Time
	Time      string
	PatientID string
	Patient   PatientInput
}
