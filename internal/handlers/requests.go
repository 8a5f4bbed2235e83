package handlers

import (
	"clinic-scheduling-server/internal/models"
	"clinic-scheduling-server/internal/scheduling"
)

// ProfessionalRequest is the body of add-new-professional and login.
type ProfessionalRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

func (r ProfessionalRequest) input() scheduling.ProfessionalInput {
	return scheduling.ProfessionalInput{Email: r.Email, Name: r.Name, Specialty: r.Specialty}
}

// UpdateProfessionalRequest changes the non-empty fields of a professional.
type UpdateProfessionalRequest struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// PatientRequest describes a patient. Clients send either id or _id.
type PatientRequest struct {
	ID               string      `json:"id"`
	LegacyID         string      `json:"_id"`
	Name             string      `json:"name"`
	DateOfBirth      models.Date `json:"dateOfBirth"`
	CurrentTreatment string      `json:"currentTreatment"`
}

func (r PatientRequest) id() string {
	if r.ID != "" {
		return r.ID
	}
	return r.LegacyID
}

func (r PatientRequest) input() scheduling.PatientInput {
	return scheduling.PatientInput{
		Name:             r.Name,
		DateOfBirth:      r.DateOfBirth.Time,
		CurrentTreatment: r.CurrentTreatment,
	}
}

// ProfessionalRefRequest points at the booking professional by id, _id or email.
type ProfessionalRefRequest struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id"`
	Email    string `json:"email"`
}

func (r ProfessionalRefRequest) ref() scheduling.ProfessionalRef {
	id := r.ID
	if id == "" {
		id = r.LegacyID
	}
	return scheduling.ProfessionalRef{ID: id, Email: r.Email}
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	Date                models.Date            `json:"date"`
	Time                string                 `json:"time" binding:"required"`
	ProfessionalDetails ProfessionalRefRequest `json:"professionalDetails"`
	PatientDetails      PatientRequest         `json:"patientDetails"`
}

// EditAppointmentRequest changes an appointment and its patient together.
type EditAppointmentRequest struct {
	Date           models.Date    `json:"date"`
	Time           string         `json:"time"`
	PatientDetails PatientRequest `json:"patientDetails"`
}

// UpdateStatusRequest represents the request body for updating appointment status.
type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=upcoming past completed"`
}

// LoginResponse is returned by the professional login.
type LoginResponse struct {
	AccessToken  string                        `json:"accessToken"`
	Professional scheduling.ProfessionalRecord `json:"professional"`
	Created      bool                          `json:"created"`
}

// ProfessionalsOverview is returned by GET /professionals.
type ProfessionalsOverview struct {
	AllProfessionals []scheduling.ProfessionalWithAppointments `json:"allProfessionals"`
	AllAppointments  []scheduling.AppointmentDetail            `json:"allAppointments"`
}
