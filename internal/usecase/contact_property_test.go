//go:build property
// +build property

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/mock"
)

func TestContactValidationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	v := usecase.NewFieldValidator(domain.DefaultServices)

	// Property: validating the same value twice gives the same message
	properties.Property("field validation is repeatable", prop.ForAll(
		func(idx int, value string) bool {
			field := domain.AllFields[idx]
			first, err1 := v.Field(field, value)
			second, err2 := v.Field(field, value)
			return err1 == nil && err2 == nil && first == second
		},
		gen.IntRange(0, len(domain.AllFields)-1),
		gen.AnyString(),
	))

	// Property: a phone number passes exactly when it is 8+ ASCII digits
	properties.Property("phone rule", prop.ForAll(
		func(phone string) bool {
			msg, _ := v.Field(domain.FieldPhone, phone)
			return (msg == "") == (len(phone) >= 8)
		},
		gen.RegexMatch(`^[0-9]{1,16}$`),
	))

	// Property: names pass exactly when they have at least two characters
	properties.Property("name length rule", prop.ForAll(
		func(name string) bool {
			msg, _ := v.Field(domain.FieldFirstName, name)
			return (msg == "") == (len([]rune(name)) >= 2)
		},
		gen.AlphaString(),
	))

	// Property: breaking any one field of a valid form blocks delivery and names only that field
	properties.Property("single invalid field blocks submit", prop.ForAll(
		func(idx int) bool {
			field := domain.AllFields[idx]
			values := validValues()
			values[field] = ""

			sender := new(MockSender)
			form := usecase.NewContactForm(v, sender, nil)
			for _, f := range domain.AllFields {
				_, _ = form.UpdateField(f, values[f])
			}

			_, err := form.Submit(context.Background(), testDelivery)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || len(verr.Fields) != 1 {
				return false
			}
			_, named := verr.Fields[field]
			return named && len(sender.Calls) == 0 && !form.InFlight()
		},
		gen.IntRange(0, len(domain.AllFields)-1),
	))

	// Property: a failed delivery never changes the entered values
	properties.Property("failure preserves values", prop.ForAll(
		func(description string) bool {
			values := validValues()
			values[domain.FieldDescription] = "Project: " + description

			sender := new(MockSender)
			sender.On("CheckConfig", testDelivery).Return(nil)
			sender.On("Send", mock.Anything, testDelivery, mock.Anything).Return(domain.Failed(nil))

			form := usecase.NewContactForm(v, sender, nil)
			for _, f := range domain.AllFields {
				_, _ = form.UpdateField(f, values[f])
			}
			_, err := form.Submit(context.Background(), testDelivery)
			return errors.Is(err, domain.ErrDeliveryFailed) && form.Values()[domain.FieldDescription] == values[domain.FieldDescription]
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
