package entity

import "github.com/google/uuid"

// Gender of a doctor, used to pick a default avatar.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	LicenseNo    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_no"`
	Gender       Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	DepartmentID string    `gorm:"type:varchar(32);not null;index:idx_doctor_division" json:"department_id"`
	SpecialtyID  string    `gorm:"type:varchar(32);not null;index:idx_doctor_division" json:"specialty_id"`
	Title        string    `gorm:"type:varchar(100)" json:"title,omitempty"`
	Education    string    `gorm:"type:text" json:"education,omitempty"`
	Experience   string    `gorm:"type:text" json:"experience,omitempty"`
	Expertise    string    `gorm:"type:text" json:"expertise,omitempty"`

	// Relationships
	User     User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Schedule *DoctorSchedule `gorm:"foreignKey:DoctorID" json:"schedule,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// DoctorFilter narrows doctor listings to a division.
type DoctorFilter struct {
	DepartmentID string
	SpecialtyID  string
	ActiveOnly   bool
}
