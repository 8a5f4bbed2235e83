// Package store defines the persistence contract of the scheduling service.
// Implementations live in the memstore, mongostore and mysqlstore subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"clinic-scheduling-server/internal/models"
)

var (
	// ErrNotFound is returned when an id or lookup key resolves to no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint,
	// in practice the appointment (date, time) slot.
	ErrDuplicate = errors.New("duplicate record")
)

// AppointmentFilter narrows ListAppointments. Empty fields match everything.
type AppointmentFilter struct {
	PatientID      string
	ProfessionalID string
}

// Store is the document store behind the scheduling service.
// List methods return records in creation order.
type Store interface {
	ListProfessionals(ctx context.Context) ([]models.Professional, error)
	GetProfessional(ctx context.Context, id string) (*models.Professional, error)
	FindProfessionalByEmail(ctx context.Context, email string) (*models.Professional, error)
	FindProfessionalByName(ctx context.Context, name string) (*models.Professional, error)
	CreateProfessional(ctx context.Context, p *models.Professional) error
	UpdateProfessional(ctx context.Context, p *models.Professional) error
	DeleteProfessional(ctx context.Context, id string) error

	ListPatients(ctx context.Context) ([]models.Patient, error)
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	FindPatient(ctx context.Context, name string, dateOfBirth time.Time) (*models.Patient, error)
	CreatePatient(ctx context.Context, p *models.Patient) error
	UpdatePatient(ctx context.Context, p *models.Patient) error
	DeletePatient(ctx context.Context, id string) error

	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	FindAppointmentBySlot(ctx context.Context, date time.Time, clock string) (*models.Appointment, error)
	// CreateAppointment fails with ErrDuplicate if the slot is taken.
	CreateAppointment(ctx context.Context, a *models.Appointment) error
	// UpdateAppointment fails with ErrDuplicate if the new slot is taken by another appointment.
	UpdateAppointment(ctx context.Context, a *models.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
