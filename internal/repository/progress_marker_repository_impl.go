package repository

import (
	"errors"
	"time"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type progressMarkerRepository struct{}

func NewProgressMarkerRepository() domainRepo.ProgressMarkerRepository {
	return &progressMarkerRepository{}
}

func (r *progressMarkerRepository) Create(db *gorm.DB, marker *entity.ProgressMarker) error {
	return db.Create(marker).Error
}

func (r *progressMarkerRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	return r.find(db, doctorID)
}

func (r *progressMarkerRepository) FindByDoctorIDForUpdate(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	return r.find(db.Clauses(clause.Locking{Strength: "UPDATE"}), doctorID)
}

func (r *progressMarkerRepository) find(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	var marker entity.ProgressMarker
	err := db.Where("doctor_id = ?", doctorID).First(&marker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &marker, nil
}

func (r *progressMarkerRepository) Save(db *gorm.DB, marker *entity.ProgressMarker) error {
	return db.Save(marker).Error
}

func (r *progressMarkerRepository) Delete(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ?", doctorID).Delete(&entity.ProgressMarker{})
	return result.RowsAffected, result.Error
}

// DeleteOpenedBefore removes sessions left open on earlier days.
func (r *progressMarkerRepository) DeleteOpenedBefore(db *gorm.DB, day time.Time) (int64, error) {
	result := db.Where("opened_on < ?", day).Delete(&entity.ProgressMarker{})
	return result.RowsAffected, result.Error
}
