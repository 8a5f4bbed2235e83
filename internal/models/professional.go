package models

import (
	"time"
)

// Professional is a clinician who owns appointments.
// Email is the login lookup key; the direct-add flow looks professionals up by Name.
type Professional struct {
	BaseModel `bson:",inline"`

	Email        string     `gorm:"size:255;index" bson:"email" json:"email"`
	Name         string     `gorm:"size:255;not null;index" bson:"name" json:"name"`
	Specialty    string     `gorm:"size:255" bson:"specialty,omitempty" json:"specialty,omitempty"`
	LastLoggedIn *time.Time `bson:"lastLoggedIn,omitempty" json:"lastLoggedIn,omitempty"`
}
