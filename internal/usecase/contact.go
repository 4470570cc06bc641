package usecase

import (
	"context"
	"errors"
	"sort"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/notify"
	"portfolio-backend/pkg/security"
)

// ContactDeps wires the contact usecase.
type ContactDeps struct {
	Sender   domain.EmailSender
	Guard    domain.SubmitGuard
	Delivery domain.DeliveryConfig
	Services []string
	Profile  domain.Profile
	Audit    *security.SecurityLogger
}

type contactUsecase struct {
	fields   *FieldValidator
	sender   domain.EmailSender
	guard    domain.SubmitGuard
	delivery domain.DeliveryConfig
	services []string
	profile  domain.Profile
	audit    *security.SecurityLogger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(deps ContactDeps) domain.ContactUsecase {
	services := deps.Services
	if len(services) == 0 {
		services = domain.DefaultServices
	}
	audit := deps.Audit
	if audit == nil {
		audit = security.DefaultLogger()
	}
	return &contactUsecase{
		fields:   NewFieldValidator(services),
		sender:   deps.Sender,
		guard:    deps.Guard,
		delivery: deps.Delivery,
		services: services,
		profile:  deps.Profile,
		audit:    audit,
	}
}

func (uc *contactUsecase) ValidateField(field domain.Field, value string) (string, error) {
	return uc.fields.Field(field, value)
}

func (uc *contactUsecase) Validate(values domain.FieldValues) domain.FieldErrors {
	return uc.fields.All(values)
}

func (uc *contactUsecase) Services() []string {
	out := make([]string, len(uc.services))
	copy(out, uc.services)
	return out
}

func (uc *contactUsecase) ContactInfo() []domain.ContactInfo {
	return uc.profile.ContactInfo()
}

// Submit runs one user-initiated submit. The returned result is non-nil whenever the
// form was evaluated, so callers can re-render the remaining values and notification.
func (uc *contactUsecase) Submit(ctx context.Context, req domain.SubmitRequest) (*domain.SubmitResult, error) {
	if req.GuardKey != "" && uc.guard != nil {
		release, acquired, err := uc.guard.Acquire(ctx, req.GuardKey)
		switch {
		case err != nil:
			// Fail open: the guard only deduplicates, delivery does not depend on it.
			logger.Log.Warn("Submit guard unavailable", "error", err)
		case !acquired:
			uc.audit.LogDuplicateSubmit(ctx, req.GuardKey)
			return nil, domain.ErrSubmissionInFlight
		default:
			defer release()
		}
	}

	recorder := notify.NewRecorder()
	form := NewContactForm(uc.fields, uc.sender, notify.Multi{recorder, req.Notifier})
	for _, field := range domain.AllFields {
		if _, err := form.UpdateField(field, req.Values[field]); err != nil {
			return nil, err
		}
	}

	res, err := form.Submit(ctx, uc.delivery)

	result := &domain.SubmitResult{
		Values:    form.Values(),
		MessageID: res.MessageID,
	}
	if n, ok := recorder.Last(); ok {
		result.Notification = n
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for f := range verr.Fields {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)
		uc.audit.LogValidationFailed(ctx, fields)
	case errors.Is(err, domain.ErrDeliveryFailed):
		uc.audit.LogDeliveryFailed(ctx, uc.sender.Name(), req.Values[domain.FieldEmail], res.Err)
	}
	return result, err
}
