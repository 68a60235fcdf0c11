package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Includes the doctor profile when it is loaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	response := &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if response.Role == "" {
		response.Role = entity.RoleNameByID(user.RoleID)
	}

	if user.DoctorProfile != nil {
		profile := *user.DoctorProfile
		profile.User = *user
		response.DoctorProfile = DoctorProfileToResponse(&profile)
	}

	return response
}
