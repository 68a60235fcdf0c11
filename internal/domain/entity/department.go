package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Department is immutable reference data loaded wholesale by the portal.
type Department struct {
	ID        string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Specialties []Specialty `gorm:"foreignKey:DepartmentID" json:"specialties,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

type Specialty struct {
	ID              string          `gorm:"type:varchar(32);primaryKey" json:"id"`
	DepartmentID    string          `gorm:"type:varchar(32);primaryKey" json:"department_id"`
	Name            string          `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder       int             `gorm:"not null;default:0" json:"sort_order"`
	RegistrationFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"registration_fee"`
}

func (Specialty) TableName() string {
	return "specialties"
}
