package repository

import (
	"errors"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorScheduleRepository struct{}

func NewDoctorScheduleRepository() domainRepo.DoctorScheduleRepository {
	return &doctorScheduleRepository{}
}

func (r *doctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorSchedule, error) {
	var schedule entity.DoctorSchedule
	err := db.Where("doctor_id = ?", doctorID).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

// Upsert replaces the room and shift rules of the doctor's single schedule record.
func (r *doctorScheduleRepository) Upsert(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"room", "shift_rules", "updated_at"}),
	}).Create(schedule).Error
}
