package repository

import (
	"outpatient-registration/internal/domain/entity"

	"gorm.io/gorm"
)

type DepartmentRepository interface {
	Create(db *gorm.DB, department *entity.Department) error
	FindAll(db *gorm.DB) ([]entity.Department, error)
	FindSpecialty(db *gorm.DB, departmentID, specialtyID string) (*entity.Specialty, error)
}
