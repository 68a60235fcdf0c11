package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest removes a doctor's availability for specific (date, period) pairs.
type LeaveRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Reason    string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Slots []LeaveSlot `gorm:"foreignKey:LeaveRequestID" json:"slots"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type LeaveSlot struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	DoctorID       uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_slot_lookup" json:"-"`
	LeaveDate      time.Time `gorm:"type:date;not null;index:idx_leave_slot_lookup" json:"date"`
	Period         Period    `gorm:"type:varchar(10);not null" json:"period"`
}

func (LeaveSlot) TableName() string {
	return "leave_slots"
}
