package repository

import (
	"errors"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit("User", "Schedule").Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Preload("Schedule").Where("user_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll lists doctors, optionally restricted to one division and to active accounts.
func (r *doctorProfileRepository) FindAll(db *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	query := db.Joins("JOIN users ON users.id = doctor_profiles.user_id")

	if filter != nil {
		if filter.DepartmentID != "" {
			query = query.Where("doctor_profiles.department_id = ?", filter.DepartmentID)
		}
		if filter.SpecialtyID != "" {
			query = query.Where("doctor_profiles.specialty_id = ?", filter.SpecialtyID)
		}
		if filter.ActiveOnly {
			query = query.Where("users.is_active = ?", true)
		}
	}

	err := query.Preload("User").Preload("Schedule").
		Order("users.full_name ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *doctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Omit("User", "Schedule").Save(profile).Error
}
