package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/scheduling"

	"github.com/google/uuid"
)

// ProgressToResponse renders the marker of doctorID; marker may be nil (closed).
func ProgressToResponse(doctorID uuid.UUID, marker *entity.ProgressMarker, waiting int) *dto.ProgressResponse {
	response := &dto.ProgressResponse{
		DoctorID: doctorID,
		State:    string(scheduling.StateOf(marker)),
		Waiting:  waiting,
	}
	if marker == nil {
		return response
	}

	response.OpenedOn = DateString(marker.OpenedOn)
	if marker.Period != nil {
		p := string(*marker.Period)
		response.Period = &p
	}
	if marker.Number != nil {
		n := *marker.Number
		response.CurrentNumber = &n
	}
	return response
}
