package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	FullName     string `json:"full_name" validate:"required,min=2"`
	LicenseNo    string `json:"license_no" validate:"required,max=50"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	DepartmentID string `json:"department_id" validate:"required"`
	SpecialtyID  string `json:"specialty_id" validate:"required"`
	Title        string `json:"title" validate:"omitempty,max=100"`
	Education    string `json:"education" validate:"omitempty"`
	Experience   string `json:"experience" validate:"omitempty"`
	Expertise    string `json:"expertise" validate:"omitempty"`
	Room         string `json:"room" validate:"omitempty,max=50"`
}

type UpdateDoctorRequest struct {
	Email        string `json:"email" validate:"omitempty,email"`
	Password     string `json:"password" validate:"omitempty,min=6"`
	FullName     string `json:"full_name" validate:"omitempty,min=2"`
	LicenseNo    string `json:"license_no" validate:"omitempty,max=50"`
	Gender       string `json:"gender" validate:"omitempty,oneof=male female"`
	DepartmentID string `json:"department_id" validate:"omitempty"`
	SpecialtyID  string `json:"specialty_id" validate:"omitempty"`
	Title        string `json:"title" validate:"omitempty,max=100"`
	Education    string `json:"education" validate:"omitempty"`
	Experience   string `json:"experience" validate:"omitempty"`
	Expertise    string `json:"expertise" validate:"omitempty"`
	IsActive     *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email,omitempty"`
	FullName     string    `json:"full_name"`
	LicenseNo    string    `json:"license_no"`
	Gender       string    `json:"gender"`
	DepartmentID string    `json:"department_id"`
	SpecialtyID  string    `json:"specialty_id"`
	Title        string    `json:"title,omitempty"`
	Education    string    `json:"education,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	Expertise    string    `json:"expertise,omitempty"`
	Room         string    `json:"room,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
