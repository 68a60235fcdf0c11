package validator

import (
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"

	"outpatient-registration/internal/domain/entity"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		return ValidNationalID(fl.Field().String())
	})
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		return entity.Period(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("civil_date", func(fl validator.FieldLevel) bool {
		_, err := civil.ParseDate(fl.Field().String())
		return err == nil
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "national_id":
				errors[field] = field + " must be a valid national ID"
			case "period":
				errors[field] = field + " must be morning, afternoon or evening"
			case "civil_date":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			case "numeric":
				errors[field] = field + " must contain digits only"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

// Area codes of the leading letter of a national ID.
var nationalIDLetters = map[byte]int{
	'A': 10, 'B': 11, 'C': 12, 'D': 13, 'E': 14, 'F': 15, 'G': 16, 'H': 17,
	'I': 34, 'J': 18, 'K': 19, 'L': 20, 'M': 21, 'N': 22, 'O': 35, 'P': 23,
	'Q': 24, 'R': 25, 'S': 26, 'T': 27, 'U': 28, 'V': 29, 'W': 32, 'X': 30,
	'Y': 31, 'Z': 33,
}

// ValidNationalID checks the format (one uppercase letter, a sex digit 1, 2,
// 8 or 9, eight more digits) and the weighted checksum.
func ValidNationalID(id string) bool {
	if len(id) != 10 {
		return false
	}
	code, ok := nationalIDLetters[id[0]]
	if !ok {
		return false
	}
	switch id[1] {
	case '1', '2', '8', '9':
	default:
		return false
	}

	sum := code/10 + (code%10)*9
	for i := 1; i < 10; i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		weight := 9 - i
		if i == 9 {
			weight = 1
		}
		sum += int(c-'0') * weight
	}
	return sum%10 == 0
}
