package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
)

func DepartmentToResponse(department *entity.Department) dto.DepartmentResponse {
	specialties := make([]dto.SpecialtyResponse, len(department.Specialties))
	for i, s := range department.Specialties {
		specialties[i] = dto.SpecialtyResponse{
			ID:              s.ID,
			Name:            s.Name,
			RegistrationFee: s.RegistrationFee,
		}
	}
	return dto.DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Specialties: specialties,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = DepartmentToResponse(&departments[i])
	}
	return responses
}

// CreateDepartmentRequestToEntity builds the department with its specialties.
func CreateDepartmentRequestToEntity(req *dto.CreateDepartmentRequest) *entity.Department {
	department := &entity.Department{
		ID:        req.ID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	for _, s := range req.Specialties {
		department.Specialties = append(department.Specialties, entity.Specialty{
			ID:              s.ID,
			DepartmentID:    req.ID,
			Name:            s.Name,
			SortOrder:       s.SortOrder,
			RegistrationFee: s.RegistrationFee,
		})
	}
	return department
}
