package repository

import (
	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorSchedule, error)
	Upsert(db *gorm.DB, schedule *entity.DoctorSchedule) error
}
