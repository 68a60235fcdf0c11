package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidNationalID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"A123456789", true},
		{"B123456780", true},
		{"F131104093", true},
		{"B223456782", true},
		{"A123456788", false},
		{"a123456789", false},
		{"A323456789", false},
		{"A12345678", false},
		{"A12345678X", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidNationalID(tt.id))
		})
	}
}

type bookingForm struct {
	NationalID string `json:"national_id" validate:"required,national_id"`
	Period     string `json:"period" validate:"required,period"`
	Date       string `json:"opd_date" validate:"required,civil_date"`
}

func TestCustomValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Validate(&bookingForm{NationalID: "A123456789", Period: "evening", Date: "2025-01-20"}))

	err := v.Validate(&bookingForm{NationalID: "A123456788", Period: "night", Date: "20/01/2025"})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Equal(t, "national_id must be a valid national ID", fields["national_id"])
	assert.Equal(t, "period must be morning, afternoon or evening", fields["period"])
	assert.Equal(t, "opd_date must be a date in YYYY-MM-DD format", fields["opd_date"])
}
