package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateRegistrationRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id" validate:"required"`
	OPDDate     string    `json:"opd_date" validate:"required,civil_date"`
	Period      string    `json:"period" validate:"required,period"`
	NationalID  string    `json:"national_id" validate:"required,national_id"`
	PatientName string    `json:"patient_name" validate:"required,max=100"`
	BirthDate   string    `json:"birth_date" validate:"required,civil_date"`
	Phone       string    `json:"phone" validate:"required,numeric,min=8,max=20"`
}

// PatientIdentityRequest proves a patient's identity for lookups and cancellations.
type PatientIdentityRequest struct {
	NationalID string `json:"national_id" validate:"required,national_id"`
	BirthDate  string `json:"birth_date" validate:"required,civil_date"`
}

// Response DTOs

type RegistrationResponse struct {
	ID                 uuid.UUID       `json:"id"`
	DoctorID           uuid.UUID       `json:"doctor_id"`
	DoctorName         string          `json:"doctor_name,omitempty"`
	DepartmentID       string          `json:"department_id"`
	SpecialtyID        string          `json:"specialty_id"`
	OPDDate            string          `json:"opd_date"`
	Period             string          `json:"period"`
	RegistrationNumber int             `json:"registration_number"`
	PatientName        string          `json:"patient_name"`
	Phone              string          `json:"phone,omitempty"`
	Fee                decimal.Decimal `json:"fee"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
}

type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Total         int                    `json:"total"`
}
