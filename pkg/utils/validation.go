package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldErrors maps field names to human-readable validation messages
type FieldErrors map[string]string

// Error joins the per-field messages in field order
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fe[field])
	}
	return strings.Join(msgs, "; ")
}

// Details converts the field errors into a response details map
func (fe FieldErrors) Details() map[string]interface{} {
	details := make(map[string]interface{}, len(fe))
	for field, msg := range fe {
		details[field] = msg
	}
	return details
}

// ValidateStruct validates a struct based on its validation tags. A
// failure is returned as FieldErrors so callers can surface per-field
// messages.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError maps validator errors to per-field messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fieldErrs := make(FieldErrors, len(validationErrors))
		for _, e := range validationErrors {
			fieldErrs[strings.ToLower(e.Field())] = formatFieldError(e)
		}
		return fieldErrs
	}
	return err
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
