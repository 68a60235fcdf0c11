package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProgressMarker is the live record of a doctor's open clinic session.
// Period is nil until chosen; Number is nil until the first patient is called.
type ProgressMarker struct {
	DoctorID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	OpenedOn  time.Time `gorm:"type:date;not null" json:"opened_on"`
	Period    *Period   `gorm:"type:varchar(10)" json:"period"`
	Number    *int      `json:"number"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProgressMarker) TableName() string {
	return "progress_markers"
}
