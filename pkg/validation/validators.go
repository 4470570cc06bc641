package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var digitsRegex = regexp.MustCompile(`^\d+$`)

// New returns a validator that reports json field names and knows the custom tags.
func New(services []string) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	RegisterValidators(v, services)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate, services []string) {
	_ = v.RegisterValidation("digits", Digits)
	_ = v.RegisterValidation("offered_service", OfferedService(services))
}

// Digits accepts a non-empty string of ASCII digits only.
func Digits(fl validator.FieldLevel) bool {
	return digitsRegex.MatchString(fl.Field().String())
}

// OfferedService accepts exactly one of the given service names.
func OfferedService(services []string) validator.Func {
	allowed := make(map[string]struct{}, len(services))
	for _, s := range services {
		allowed[s] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	}
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
