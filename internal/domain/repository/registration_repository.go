package repository

import (
	"time"

	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(db *gorm.DB, registration *entity.Registration) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Registration, error)
	// FindBySlot returns every registration of a session regardless of status.
	FindBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error)
	FindConfirmedBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error)
	FindConfirmedByPatient(db *gorm.DB, nationalID string, birthDate time.Time, from time.Time) ([]entity.Registration, error)
	Cancel(db *gorm.DB, id uuid.UUID) (int64, error)
}
