package usecase

import (
	"context"
	"fmt"
	"sync"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// contactRules are the validator tags applied to each field.
var contactRules = map[domain.Field]string{
	domain.FieldFirstName:   "min=2",
	domain.FieldLastName:    "min=2",
	domain.FieldEmail:       "email",
	domain.FieldPhone:       "digits,min=8",
	domain.FieldService:     "required,offered_service",
	domain.FieldDescription: "min=10",
}

// FieldValidator checks contact fields independently of each other.
// Results depend only on the value, so repeated calls agree.
type FieldValidator struct {
	validate *validator.Validate
}

func NewFieldValidator(services []string) *FieldValidator {
	return &FieldValidator{validate: validation.New(services)}
}

// Field returns the message for value, or "" when it passes.
func (v *FieldValidator) Field(field domain.Field, value string) (string, error) {
	rule, ok := contactRules[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	return validation.FieldMessage(string(field), v.validate.Var(value, rule)), nil
}

// All validates every field; missing values count as empty.
func (v *FieldValidator) All(values domain.FieldValues) domain.FieldErrors {
	errs := domain.FieldErrors{}
	for _, field := range domain.AllFields {
		if msg, _ := v.Field(field, values[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// SubmitOutcome is what a single submit resolves to.
type SubmitOutcome struct {
	Result domain.DeliveryResult
	Err    error
}

// ContactForm is the state of one rendered contact form: field values, field errors
// and whether a delivery is in flight. It is safe for concurrent use.
type ContactForm struct {
	mu       sync.Mutex
	fields   *FieldValidator
	sender   domain.EmailSender
	notifier domain.Notifier

	values   domain.FieldValues
	errors   domain.FieldErrors
	inFlight bool
}

func NewContactForm(fields *FieldValidator, sender domain.EmailSender, notifier domain.Notifier) *ContactForm {
	return &ContactForm{
		fields:   fields,
		sender:   sender,
		notifier: notifier,
		values:   emptyValues(),
		errors:   domain.FieldErrors{},
	}
}

func emptyValues() domain.FieldValues {
	values := make(domain.FieldValues, len(domain.AllFields))
	for _, f := range domain.AllFields {
		values[f] = ""
	}
	return values
}

// UpdateField stores value and revalidates that field only.
func (f *ContactForm) UpdateField(field domain.Field, value string) (string, error) {
	msg, err := f.fields.Field(field, value)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	if msg == "" {
		delete(f.errors, field)
	} else {
		f.errors[field] = msg
	}
	return msg, nil
}

func (f *ContactForm) Values() domain.FieldValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

func (f *ContactForm) Errors() domain.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

func (f *ContactForm) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Validate re-validates every field and replaces the stored errors.
func (f *ContactForm) Validate() domain.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = f.fields.All(f.values)
	return f.errors.Clone()
}

// Submit validates the form and, when valid, makes exactly one delivery attempt.
// It blocks until the provider answers; other fields stay editable meanwhile.
// Once started the attempt runs to completion even if ctx is cancelled.
func (f *ContactForm) Submit(ctx context.Context, cfg domain.DeliveryConfig) (domain.DeliveryResult, error) {
	sub, err := f.begin(ctx, cfg)
	if err != nil {
		return domain.DeliveryResult{}, err
	}
	res := f.sender.Send(context.WithoutCancel(ctx), cfg, sub)
	return res, f.resolve(ctx, sub, res)
}

// SubmitAsync is Submit with the delivery on its own goroutine. The in-flight flag is
// already set when it returns. The channel yields one outcome and is then closed.
func (f *ContactForm) SubmitAsync(ctx context.Context, cfg domain.DeliveryConfig) <-chan SubmitOutcome {
	out := make(chan SubmitOutcome, 1)

	sub, err := f.begin(ctx, cfg)
	if err != nil {
		out <- SubmitOutcome{Err: err}
		close(out)
		return out
	}

	sendCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(out)
		res := f.sender.Send(sendCtx, cfg, sub)
		out <- SubmitOutcome{Result: res, Err: f.resolve(ctx, sub, res)}
	}()
	return out
}

// begin runs the submit preconditions and marks the form in flight.
func (f *ContactForm) begin(ctx context.Context, cfg domain.DeliveryConfig) (domain.ContactSubmission, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return domain.ContactSubmission{}, domain.ErrSubmissionInFlight
	}

	f.errors = f.fields.All(f.values)
	if len(f.errors) > 0 {
		verr := &domain.ValidationError{Fields: f.errors.Clone()}
		f.mu.Unlock()
		return domain.ContactSubmission{}, verr
	}

	if err := f.sender.CheckConfig(cfg); err != nil {
		f.mu.Unlock()
		logger.Log.Error("Email delivery is not configured", "provider", f.sender.Name(), "error", err)
		f.notify(ctx, domain.Notification{Message: domain.MessageSendFailed, Severity: domain.SeverityError})
		return domain.ContactSubmission{}, err
	}

	f.inFlight = true
	sub := domain.NewContactSubmission(f.values)
	f.mu.Unlock()
	return sub, nil
}

// resolve applies a delivery result: success clears the form, failure keeps the input.
func (f *ContactForm) resolve(ctx context.Context, sub domain.ContactSubmission, res domain.DeliveryResult) error {
	f.mu.Lock()
	f.inFlight = false
	if res.OK() {
		f.values = emptyValues()
		f.errors = domain.FieldErrors{}
	}
	f.mu.Unlock()

	if res.OK() {
		logger.Log.Info("Contact email sent", "provider", f.sender.Name(), "message_id", res.MessageID)
		f.notify(ctx, domain.Notification{Message: domain.MessageSent, Severity: domain.SeverityInfo})
		return nil
	}

	logger.Log.Error("Email sending failed",
		"provider", f.sender.Name(),
		"email", logger.RedactEmail(sub.Email()),
		"error", res.Err,
	)
	f.notify(ctx, domain.Notification{Message: domain.MessageSendFailed, Severity: domain.SeverityError})
	return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, res.Err)
}

func (f *ContactForm) notify(ctx context.Context, n domain.Notification) {
	if f.notifier != nil {
		f.notifier.Notify(ctx, n)
	}
}
