package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"
)

type ProgressHandler struct {
	progressUsecase usecase.ProgressUsecase
	validator       *validator.CustomValidator
}

func NewProgressHandler(progressUsecase usecase.ProgressUsecase, validator *validator.CustomValidator) *ProgressHandler {
	return &ProgressHandler{
		progressUsecase: progressUsecase,
		validator:       validator,
	}
}

// GetProgress is the public live view of a doctor's queue.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathUUID(w, r, "doctorId", "doctor ID")
	if !ok {
		return
	}

	progress, err := h.progressUsecase.GetProgress(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}

	response.Success(w, http.StatusOK, "Progress retrieved successfully", progress)
}

func (h *ProgressHandler) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressUsecase.GetProgress(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get progress")
		return
	}

	response.Success(w, http.StatusOK, "Progress retrieved successfully", progress)
}

// OpenClinic accepts an empty body; the period may be chosen later.
func (h *ProgressHandler) OpenClinic(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.OpenClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	var period *entity.Period
	if req.Period != nil {
		p := entity.Period(*req.Period)
		period = &p
	}

	progress, err := h.progressUsecase.OpenClinic(r.Context(), doctorID, period)
	if err != nil {
		writeError(w, err, "Failed to open clinic")
		return
	}

	response.Success(w, http.StatusCreated, "Clinic opened successfully", progress)
}

func (h *ProgressHandler) SelectPeriod(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.SelectPeriodRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	progress, err := h.progressUsecase.SelectPeriod(r.Context(), doctorID, entity.Period(req.Period))
	if err != nil {
		writeError(w, err, "Failed to select period")
		return
	}

	response.Success(w, http.StatusOK, "Period selected successfully", progress)
}

func (h *ProgressHandler) CallNext(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.progressUsecase.CallNext(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to call next patient")
		return
	}

	msg := "Next patient called"
	if progress.Advanced != nil && !*progress.Advanced {
		msg = "No patients waiting"
	}
	response.Success(w, http.StatusOK, msg, progress)
}

func (h *ProgressHandler) CloseClinic(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.progressUsecase.CloseClinic(r.Context(), doctorID); err != nil {
		writeError(w, err, "Failed to close clinic")
		return
	}

	response.Success(w, http.StatusOK, "Clinic closed successfully", nil)
}
