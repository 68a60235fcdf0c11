package handler

import (
	"net/http"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"

	"cloud.google.com/go/civil"
)

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		validator:           validator,
	}
}

// CreateRegistration books a clinic session for a patient
// @Summary Register for a clinic session
// @Tags Registrations
// @Accept json
// @Produce json
// @Param request body dto.CreateRegistrationRequest true "Registration Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /registrations [post]
func (h *RegistrationHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRegistrationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	registration, err := h.registrationUsecase.CreateRegistration(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create registration")
		return
	}

	response.Success(w, http.StatusCreated, "Registration created successfully", registration)
}

func (h *RegistrationHandler) SearchRegistrations(w http.ResponseWriter, r *http.Request) {
	var req dto.PatientIdentityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	registrations, err := h.registrationUsecase.SearchRegistrations(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to search registrations")
		return
	}

	response.Success(w, http.StatusOK, "Registrations retrieved successfully", registrations)
}

func (h *RegistrationHandler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := pathUUID(w, r, "id", "registration ID")
	if !ok {
		return
	}

	var req dto.PatientIdentityRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	registration, err := h.registrationUsecase.CancelRegistration(r.Context(), registrationID, &req)
	if err != nil {
		writeError(w, err, "Failed to cancel registration")
		return
	}

	response.Success(w, http.StatusOK, "Registration cancelled successfully", registration)
}

// ListMySessionRegistrations lists the doctor's patients for ?date=&period=.
func (h *RegistrationHandler) ListMySessionRegistrations(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	date, err := civil.ParseDate(query.Get("date"))
	if err != nil {
		response.BadRequest(w, "date must be formatted as YYYY-MM-DD")
		return
	}
	period, err := entity.ParsePeriod(query.Get("period"))
	if err != nil {
		response.BadRequest(w, "period must be one of morning, afternoon, evening")
		return
	}

	registrations, err := h.registrationUsecase.ListSessionRegistrations(r.Context(), doctorID, date, period)
	if err != nil {
		writeError(w, err, "Failed to get registrations")
		return
	}

	response.Success(w, http.StatusOK, "Registrations retrieved successfully", registrations)
}
