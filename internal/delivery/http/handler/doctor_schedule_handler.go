package handler

import (
	"net/http"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"

	"github.com/google/uuid"
)

type DoctorScheduleHandler struct {
	scheduleUsecase usecase.DoctorScheduleUsecase
	validator       *validator.CustomValidator
}

func NewDoctorScheduleHandler(scheduleUsecase usecase.DoctorScheduleUsecase, validator *validator.CustomValidator) *DoctorScheduleHandler {
	return &DoctorScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		validator:       validator,
	}
}

// GetPatientCalendar serves the bookable window of one doctor.
func (h *DoctorScheduleHandler) GetPatientCalendar(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor ID")
	if !ok {
		return
	}

	calendar, err := h.scheduleUsecase.GetPatientCalendar(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

func (h *DoctorScheduleHandler) GetMyCalendar(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	calendar, err := h.scheduleUsecase.GetDoctorCalendar(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

func (h *DoctorScheduleHandler) UpdateMySchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	h.updateSchedule(w, r, doctorID, doctorID)
}

func (h *DoctorScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "id", "doctor ID")
	if !ok {
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *DoctorScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	doctorID, ok := pathUUID(w, r, "id", "doctor ID")
	if !ok {
		return
	}
	h.updateSchedule(w, r, actorID, doctorID)
}

func (h *DoctorScheduleHandler) updateSchedule(w http.ResponseWriter, r *http.Request, actorID, doctorID uuid.UUID) {
	var req dto.UpdateScheduleRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), actorID, doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}
