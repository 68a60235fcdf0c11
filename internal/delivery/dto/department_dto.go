package dto

import "github.com/shopspring/decimal"

// Request DTOs

type CreateDepartmentRequest struct {
	ID          string                   `json:"id" validate:"required,max=32"`
	Name        string                   `json:"name" validate:"required,max=100"`
	SortOrder   int                      `json:"sort_order" validate:"gte=0"`
	Specialties []CreateSpecialtyRequest `json:"specialties" validate:"required,min=1,dive"`
}

type CreateSpecialtyRequest struct {
	ID              string          `json:"id" validate:"required,max=32"`
	Name            string          `json:"name" validate:"required,max=100"`
	SortOrder       int             `json:"sort_order" validate:"gte=0"`
	RegistrationFee decimal.Decimal `json:"registration_fee"`
}

// Response DTOs

type SpecialtyResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	RegistrationFee decimal.Decimal `json:"registration_fee"`
}

type DepartmentResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Specialties []SpecialtyResponse `json:"specialties"`
}

type DepartmentListResponse struct {
	Departments []DepartmentResponse `json:"departments"`
	Total       int                  `json:"total"`
}
