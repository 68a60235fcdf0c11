package repository

import (
	"time"

	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgressMarkerRepository interface {
	Create(db *gorm.DB, marker *entity.ProgressMarker) error
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error)
	// FindByDoctorIDForUpdate row-locks the marker until the transaction ends.
	FindByDoctorIDForUpdate(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error)
	Save(db *gorm.DB, marker *entity.ProgressMarker) error
	Delete(db *gorm.DB, doctorID uuid.UUID) (int64, error)
	DeleteOpenedBefore(db *gorm.DB, day time.Time) (int64, error)
}
