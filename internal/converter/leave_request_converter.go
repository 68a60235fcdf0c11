package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
)

func LeaveRequestToResponse(req *entity.LeaveRequest) dto.LeaveRequestResponse {
	slots := make([]dto.LeaveSlotResponse, len(req.Slots))
	for i, s := range req.Slots {
		slots[i] = dto.LeaveSlotResponse{
			Date:   DateString(s.LeaveDate),
			Period: string(s.Period),
		}
	}
	return dto.LeaveRequestResponse{
		ID:        req.ID,
		DoctorID:  req.DoctorID,
		Reason:    req.Reason,
		Slots:     slots,
		CreatedAt: req.CreatedAt,
	}
}

func LeaveRequestsToResponses(reqs []entity.LeaveRequest) []dto.LeaveRequestResponse {
	responses := make([]dto.LeaveRequestResponse, len(reqs))
	for i := range reqs {
		responses[i] = LeaveRequestToResponse(&reqs[i])
	}
	return responses
}
