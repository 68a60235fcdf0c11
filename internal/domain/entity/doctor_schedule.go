package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorSchedule holds the recurring weekly shift rules of one doctor.
type DoctorSchedule struct {
	DoctorID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	Room       string     `gorm:"type:varchar(50);not null" json:"room"`
	ShiftRules ShiftRules `gorm:"type:jsonb;not null" json:"shift_rules"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DoctorSchedule) TableName() string {
	return "doctor_schedules"
}
