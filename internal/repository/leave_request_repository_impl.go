package repository

import (
	"time"

	"outpatient-registration/internal/domain/entity"
	domainRepo "outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leaveRequestRepository struct{}

func NewLeaveRequestRepository() domainRepo.LeaveRequestRepository {
	return &leaveRequestRepository{}
}

// Create inserts the request and its slots in one statement group.
func (r *leaveRequestRepository) Create(db *gorm.DB, request *entity.LeaveRequest) error {
	return db.Create(request).Error
}

func (r *leaveRequestRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.LeaveRequest, error) {
	var requests []entity.LeaveRequest
	err := db.Preload("Slots", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("leave_date ASC")
	}).Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRequestRepository) FindSlots(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.LeaveSlot, error) {
	var slots []entity.LeaveSlot
	err := db.Where("doctor_id = ? AND leave_date BETWEEN ? AND ?", doctorID, from, to).
		Order("leave_date ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
