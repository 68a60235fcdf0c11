package repository

import (
	"errors"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"gorm.io/gorm"
)

type departmentRepository struct{}

func NewDepartmentRepository() domainRepo.DepartmentRepository {
	return &departmentRepository{}
}

// Create inserts the department together with its specialties.
func (r *departmentRepository) Create(db *gorm.DB, department *entity.Department) error {
	return db.Create(department).Error
}

func (r *departmentRepository) FindAll(db *gorm.DB) ([]entity.Department, error) {
	var departments []entity.Department
	err := db.Preload("Specialties", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).Order("sort_order ASC, id ASC").Find(&departments).Error
	if err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *departmentRepository) FindSpecialty(db *gorm.DB, departmentID, specialtyID string) (*entity.Specialty, error) {
	var specialty entity.Specialty
	err := db.Where("department_id = ? AND id = ?", departmentID, specialtyID).First(&specialty).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &specialty, nil
}
