// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("user_role", validateUserRole)
	validate.RegisterValidation("report_reason", validateReportReason)
	validate.RegisterValidation("unit", validateUnit)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "individual", "factory", "company", "admin":
		return true
	}
	return false
}

func validateReportReason(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "spam", "inappropriate", "fraud", "duplicate", "other":
		return true
	}
	return false
}

func validateUnit(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "kg", "ton", "piece", "liter", "meter":
		return true
	}
	return false
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "user_role":
		return "Role must be one of: individual, factory, company"
	case "report_reason":
		return "Reason must be one of: spam, inappropriate, fraud, duplicate, other"
	case "unit":
		return "Unit must be one of: kg, ton, piece, liter, meter"
	default:
		return e.Field() + " is invalid"
	}
}
