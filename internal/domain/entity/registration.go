package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistrationStatus represents the status of a registration
type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// Registration is a patient's booking of a doctor's clinic session.
// RegistrationNumber is unique per (doctor, OPD date, period) and is kept on cancellation.
type Registration struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID           uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uq_registration_number,priority:1" json:"doctor_id"`
	DepartmentID       string             `gorm:"type:varchar(32);not null" json:"department_id"`
	SpecialtyID        string             `gorm:"type:varchar(32);not null" json:"specialty_id"`
	OPDDate            time.Time          `gorm:"column:opd_date;type:date;not null;uniqueIndex:uq_registration_number,priority:2" json:"opd_date"`
	Period             Period             `gorm:"type:varchar(10);not null;uniqueIndex:uq_registration_number,priority:3" json:"period"`
	RegistrationNumber int                `gorm:"not null;uniqueIndex:uq_registration_number,priority:4" json:"registration_number"`
	NationalID         string             `gorm:"type:char(10);not null;index" json:"national_id"`
	PatientName        string             `gorm:"type:varchar(100);not null" json:"patient_name"`
	BirthDate          time.Time          `gorm:"type:date;not null" json:"birth_date"`
	Phone              string             `gorm:"type:varchar(20);not null" json:"phone"`
	Fee                decimal.Decimal    `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	Status             RegistrationStatus `gorm:"type:varchar(10);not null;default:'confirmed';index" json:"status"`
	CreatedAt          time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}

// IsConfirmed checks if registration is confirmed
func (r *Registration) IsConfirmed() bool {
	return r.Status == RegistrationStatusConfirmed
}

// IsCancelled checks if registration is cancelled
func (r *Registration) IsCancelled() bool {
	return r.Status == RegistrationStatusCancelled
}

// Cancel changes registration status to cancelled
func (r *Registration) Cancel() {
	r.Status = RegistrationStatusCancelled
}
