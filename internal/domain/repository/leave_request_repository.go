package repository

import (
	"time"

	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequestRepository interface {
	Create(db *gorm.DB, request *entity.LeaveRequest) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.LeaveRequest, error)
	// FindSlots returns leave slots of a doctor with from <= date <= to.
	FindSlots(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.LeaveSlot, error)
}
