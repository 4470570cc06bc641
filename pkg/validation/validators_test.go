package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"firstname" validate:"min=2"`
	Email   string `json:"email" validate:"email"`
	Phone   string `json:"phone" validate:"digits,min=8"`
	Service string `json:"service" validate:"required,offered_service"`
	Notes   string `json:"description" validate:"min=10"`
	Ignored string `json:"-"`
}

func validSample() sample {
	return sample{
		Name:    "Jo",
		Email:   "a@b.com",
		Phone:   "12345678",
		Service: "Logo Design",
		Notes:   "Please build me a site",
	}
}

func TestNewValidatorAcceptsValidStruct(t *testing.T) {
	v := New([]string{"Web Development", "Logo Design"})
	assert.NoError(t, v.Struct(validSample()))
}

func TestFieldMessages(t *testing.T) {
	v := New([]string{"Web Development"})

	tests := []struct {
		name    string
		mutate  func(s *sample)
		field   string
		message string
	}{
		{"short name", func(s *sample) { s.Name = "J" }, "firstname", "Firstname must be at least 2 characters."},
		{"bad email", func(s *sample) { s.Email = "a@" }, "email", "Invalid email address."},
		{"letters in phone", func(s *sample) { s.Phone = "1234abcd" }, "phone", "Phone number must contain only digits."},
		{"short phone", func(s *sample) { s.Phone = "1234" }, "phone", "Phone number must be at least 8 digits."},
		{"empty phone", func(s *sample) { s.Phone = "" }, "phone", "Phone number must contain only digits."},
		{"no service", func(s *sample) { s.Service = "" }, "service", "Please select a service."},
		{"unknown service", func(s *sample) { s.Service = "Plumbing" }, "service", "Please select one of the offered services."},
		{"short message", func(s *sample) { s.Notes = "hi" }, "description", "Message must be at least 10 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			s.Service = "Web Development"
			tt.mutate(&s)

			err := v.Struct(s)
			require.Error(t, err)

			msgs := FormatFieldErrors(err)
			assert.Equal(t, map[string]string{tt.field: tt.message}, msgs)
		})
	}
}

func TestMinCountsCharactersNotBytes(t *testing.T) {
	v := New(nil)
	assert.NoError(t, v.Var("Åø", "min=2"))
}

func TestFormatFieldErrorsNonValidationError(t *testing.T) {
	msgs := FormatFieldErrors(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), msgs["_"])
}

func TestFieldMessage(t *testing.T) {
	v := New([]string{"Web Development"})

	assert.Equal(t, "", FieldMessage("phone", v.Var("12345678", "digits,min=8")))
	assert.Equal(t, "Phone number must be at least 8 digits.", FieldMessage("phone", v.Var("1234", "digits,min=8")))
	assert.Equal(t, "Please select a service.", FieldMessage("service", v.Var("", "required,offered_service")))
	assert.Equal(t, "Lastname must be at least 2 characters.", FieldMessage("lastname", v.Var("L", "min=2")))
}
