package dto

import "github.com/google/uuid"

// Request DTOs

type OpenClinicRequest struct {
	Period *string `json:"period" validate:"omitempty,period"`
}

type SelectPeriodRequest struct {
	Period string `json:"period" validate:"required,period"`
}

// Response DTOs

type ProgressResponse struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	State         string    `json:"state"`
	OpenedOn      string    `json:"opened_on,omitempty"`
	Period        *string   `json:"period"`
	CurrentNumber *int      `json:"current_number"`
	Waiting       int       `json:"waiting"`
	// Advanced is false when "next" found nobody waiting.
	Advanced *bool `json:"advanced,omitempty"`
}
