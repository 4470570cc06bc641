package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps json field names to user-facing labels
var FieldLabels = map[string]string{
	"firstname":   "Firstname",
	"lastname":    "Lastname",
	"email":       "Email",
	"phone":       "Phone number",
	"service":     "Service",
	"description": "Message",
}

// FieldMessages overrides the generic message for a field/tag pair.
var FieldMessages = map[string]map[string]string{
	"email": {
		"email":    "Invalid email address.",
		"required": "Invalid email address.",
	},
	"phone": {
		"digits": "Phone number must contain only digits.",
		"min":    "Phone number must be at least %s digits.",
	},
	"service": {
		"required":        "Please select a service.",
		"offered_service": "Please select one of the offered services.",
	},
}

// FormatFieldErrors converts validator.ValidationErrors to one message per field.
// The first failing rule of a field wins.
func FormatFieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = formatSingleError(field, e)
	}
	return out
}

// FieldMessage formats the first failure of a validator.Var call for the named field.
// It returns "" when err is nil.
func FieldMessage(field string, err error) string {
	if err == nil {
		return ""
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}
	return formatSingleError(field, validationErrors[0])
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(fieldName string, e validator.FieldError) string {
	tag := e.Tag()
	param := e.Param()

	if byTag, ok := FieldMessages[fieldName]; ok {
		if msg, ok := byTag[tag]; ok {
			if strings.Contains(msg, "%s") {
				return fmt.Sprintf(msg, param)
			}
			return msg
		}
	}

	label := getFieldLabel(fieldName)
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, param)
	case "email":
		return "Invalid email address."
	case "digits":
		return fmt.Sprintf("%s must contain only digits.", label)
	case "oneof", "offered_service":
		return fmt.Sprintf("%s must be one of the offered options.", label)
	default:
		return fmt.Sprintf("%s is invalid (%s).", label, tag)
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
