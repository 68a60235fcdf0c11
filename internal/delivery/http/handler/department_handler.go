package handler

import (
	"net/http"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"
)

type DepartmentHandler struct {
	departmentUsecase usecase.DepartmentUsecase
	validator         *validator.CustomValidator
}

func NewDepartmentHandler(departmentUsecase usecase.DepartmentUsecase, validator *validator.CustomValidator) *DepartmentHandler {
	return &DepartmentHandler{
		departmentUsecase: departmentUsecase,
		validator:         validator,
	}
}

func (h *DepartmentHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentUsecase.ListDepartments(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	department, err := h.departmentUsecase.CreateDepartment(r.Context(), actorID, &req)
	if err != nil {
		writeError(w, err, "Failed to create department")
		return
	}

	response.Success(w, http.StatusCreated, "Department created successfully", department)
}
