package converter

import (
	"time"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"

	"cloud.google.com/go/civil"
)

// DateString renders a DATE column value as YYYY-MM-DD.
func DateString(t time.Time) string {
	return civil.DateOf(t).String()
}

func RegistrationToResponse(reg *entity.Registration) *dto.RegistrationResponse {
	if reg == nil {
		return nil
	}
	return &dto.RegistrationResponse{
		ID:                 reg.ID,
		DoctorID:           reg.DoctorID,
		DoctorName:         reg.Doctor.User.FullName,
		DepartmentID:       reg.DepartmentID,
		SpecialtyID:        reg.SpecialtyID,
		OPDDate:            DateString(reg.OPDDate),
		Period:             string(reg.Period),
		RegistrationNumber: reg.RegistrationNumber,
		PatientName:        reg.PatientName,
		Phone:              reg.Phone,
		Fee:                reg.Fee,
		Status:             string(reg.Status),
		CreatedAt:          reg.CreatedAt,
	}
}

func RegistrationsToResponses(regs []entity.Registration) []dto.RegistrationResponse {
	responses := make([]dto.RegistrationResponse, len(regs))
	for i := range regs {
		responses[i] = *RegistrationToResponse(&regs[i])
	}
	return responses
}
