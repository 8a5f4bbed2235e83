package models

import (
	"time"
)

// Patient is a care recipient. Appointment submissions find patients by (Name, DateOfBirth).
type Patient struct {
	BaseModel `bson:",inline"`

	Name             string    `gorm:"size:255;not null;index:idx_patient_identity" bson:"name" json:"name"`
	DateOfBirth      time.Time `gorm:"type:date;not null;index:idx_patient_identity" bson:"dateOfBirth" json:"dateOfBirth"`
	CurrentTreatment string    `gorm:"type:text" bson:"currentTreatment,omitempty" json:"currentTreatment,omitempty"`
}
