package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdateScheduleRequest struct {
	Room       string              `json:"room" validate:"required,max=50"`
	ShiftRules map[string][]string `json:"shift_rules" validate:"required"`
}

// Response DTOs

type ScheduleResponse struct {
	DoctorID   uuid.UUID           `json:"doctor_id"`
	Room       string              `json:"room"`
	ShiftRules map[string][]string `json:"shift_rules"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type SlotResponse struct {
	Period   string `json:"period"`
	Status   string `json:"status"`
	Bookable bool   `json:"bookable"`
}

type CalendarDayResponse struct {
	Date    string         `json:"date"`
	Weekday string         `json:"weekday"`
	Slots   []SlotResponse `json:"slots"`
}

type CalendarResponse struct {
	DoctorID uuid.UUID               `json:"doctor_id"`
	Room     string                  `json:"room,omitempty"`
	Today    string                  `json:"today"`
	From     string                  `json:"from"`
	To       string                  `json:"to"`
	Weeks    [][]CalendarDayResponse `json:"weeks"`
}
