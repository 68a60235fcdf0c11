package handler

import (
	"net/http"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"
)

type LeaveRequestHandler struct {
	leaveUsecase usecase.LeaveRequestUsecase
	validator    *validator.CustomValidator
}

func NewLeaveRequestHandler(leaveUsecase usecase.LeaveRequestUsecase, validator *validator.CustomValidator) *LeaveRequestHandler {
	return &LeaveRequestHandler{
		leaveUsecase: leaveUsecase,
		validator:    validator,
	}
}

func (h *LeaveRequestHandler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateLeaveRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	leave, err := h.leaveUsecase.CreateLeaveRequest(r.Context(), doctorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create leave request")
		return
	}

	response.Success(w, http.StatusCreated, "Leave request created successfully", leave)
}

func (h *LeaveRequestHandler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	leaves, err := h.leaveUsecase.ListLeaveRequests(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get leave requests")
		return
	}

	response.Success(w, http.StatusOK, "Leave requests retrieved successfully", leaves)
}
