package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to the admin view.
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:           profile.UserID,
		Email:        profile.User.Email,
		FullName:     profile.User.FullName,
		LicenseNo:    profile.LicenseNo,
		Gender:       string(profile.Gender),
		DepartmentID: profile.DepartmentID,
		SpecialtyID:  profile.SpecialtyID,
		Title:        profile.Title,
		Education:    profile.Education,
		Experience:   profile.Experience,
		Expertise:    profile.Expertise,
		IsActive:     profile.User.IsActive,
	}
	if profile.Schedule != nil {
		response.Room = profile.Schedule.Room
	}
	return response
}

// DoctorProfileToPublicResponse hides account fields from patients.
func DoctorProfileToPublicResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	response := DoctorProfileToResponse(profile)
	if response != nil {
		response.Email = ""
		response.IsActive = nil
	}
	return response
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities.
func DoctorProfilesToResponses(profiles []entity.DoctorProfile, public bool) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		if public {
			responses[i] = *DoctorProfileToPublicResponse(&profiles[i])
		} else {
			responses[i] = *DoctorProfileToResponse(&profiles[i])
		}
	}
	return responses
}
