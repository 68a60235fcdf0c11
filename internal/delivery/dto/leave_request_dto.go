package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type LeaveSlotRequest struct {
	Date   string `json:"date" validate:"required,civil_date"`
	Period string `json:"period" validate:"required,period"`
}

type CreateLeaveRequest struct {
	Reason string             `json:"reason" validate:"omitempty,max=500"`
	Slots  []LeaveSlotRequest `json:"slots" validate:"required,min=1,dive"`
}

// Response DTOs

type LeaveSlotResponse struct {
	Date   string `json:"date"`
	Period string `json:"period"`
}

type LeaveRequestResponse struct {
	ID        uuid.UUID           `json:"id"`
	DoctorID  uuid.UUID           `json:"doctor_id"`
	Reason    string              `json:"reason,omitempty"`
	Slots     []LeaveSlotResponse `json:"slots"`
	CreatedAt time.Time           `json:"created_at"`
}

type LeaveRequestListResponse struct {
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
	Total         int                    `json:"total"`
}
