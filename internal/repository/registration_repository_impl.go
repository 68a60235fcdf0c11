package repository

import (
	"errors"
	"time"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type registrationRepository struct{}

func NewRegistrationRepository() domainRepo.RegistrationRepository {
	return &registrationRepository{}
}

func (r *registrationRepository) Create(db *gorm.DB, registration *entity.Registration) error {
	return db.Omit("Doctor").Create(registration).Error
}

func (r *registrationRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Registration, error) {
	var registration entity.Registration
	err := db.Preload("Doctor.User").Where("id = ?", id).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepository) FindBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := db.Where("doctor_id = ? AND opd_date = ? AND period = ?", doctorID, date, period).
		Order("registration_number ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

func (r *registrationRepository) FindConfirmedBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := db.Where("doctor_id = ? AND opd_date = ? AND period = ? AND status = ?", doctorID, date, period, entity.RegistrationStatusConfirmed).
		Order("registration_number ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// FindConfirmedByPatient returns a patient's confirmed registrations on or after from.
func (r *registrationRepository) FindConfirmedByPatient(db *gorm.DB, nationalID string, birthDate time.Time, from time.Time) ([]entity.Registration, error) {
	var registrations []entity.Registration
	err := db.Preload("Doctor.User").
		Where("national_id = ? AND birth_date = ? AND status = ? AND opd_date >= ?", nationalID, birthDate, entity.RegistrationStatusConfirmed, from).
		Order("opd_date ASC, period ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// Cancel atomically cancels a registration ONLY if it is still confirmed.
// Returns affected rows: 1 = success, 0 = already cancelled (prevents double-cancel race).
// The registration number is left untouched.
func (r *registrationRepository) Cancel(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Registration{}).
		Where("id = ? AND status = ?", id, entity.RegistrationStatusConfirmed).
		Update("status", entity.RegistrationStatusCancelled)
	return result.RowsAffected, result.Error
}
