package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"outpatient-registration/internal/delivery/http/middleware"
	"outpatient-registration/pkg/apperror"
	"outpatient-registration/pkg/response"
	"outpatient-registration/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// decodeAndValidate reads a JSON body into req; it writes the 400 response itself.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(req); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label, nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return uuid.Nil, false
	}
	return userID, true
}

// writeError renders a usecase error by its kind. Unclassified errors become
// a 500 with fallback as the message.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		response.Error(w, http.StatusBadRequest, message(err, apperror.ErrValidation), nil)
	case errors.Is(err, apperror.ErrNotFound):
		response.NotFound(w, message(err, apperror.ErrNotFound))
	case errors.Is(err, apperror.ErrConflict):
		response.Conflict(w, message(err, apperror.ErrConflict))
	case errors.Is(err, apperror.ErrUnavailable):
		response.ServiceUnavailable(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}

// message strips the kind prefix so clients see only the specific reason.
func message(err, kind error) string {
	msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
	if msg == "" {
		return kind.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
