package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusUpcoming  AppointmentStatus = "upcoming"
	StatusPast      AppointmentStatus = "past"
	StatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusPast, StatusCompleted:
		return true
	}
	return false
}

// Appointment is a booked (date, time) slot. No two appointments share a slot.
type Appointment struct {
	BaseModel `bson:",inline"`

	Date           time.Time         `gorm:"type:date;not null;uniqueIndex:idx_appointment_slot" bson:"date" json:"date"`
	Time           string            `gorm:"size:16;not null;uniqueIndex:idx_appointment_slot" bson:"time" json:"time"`
	Status         AppointmentStatus `gorm:"size:20;default:'upcoming'" bson:"status" json:"status"`
	PatientID      string            `gorm:"size:36;index" bson:"patientDetails,omitempty" json:"patientDetails,omitempty"`
	ProfessionalID string            `gorm:"size:36;index" bson:"professionalDetails,omitempty" json:"professionalDetails,omitempty"`
}

// SlotKey identifies the appointment's (date, time) slot.
func (a *Appointment) SlotKey() string {
	return SlotKey(a.Date, a.Time)
}

// SlotKey builds the slot identifier used for locking and uniqueness.
func SlotKey(date time.Time, clock string) string {
	return date.UTC().Format(DateLayout) + "@" + clock
}
