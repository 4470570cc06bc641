package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Field names a contact form input. Values match the form's wire names.
type Field string

const (
	FieldFirstName   Field = "firstname"
	FieldLastName    Field = "lastname"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldService     Field = "service"
	FieldDescription Field = "description"
)

// AllFields lists the form fields in display order.
var AllFields = []Field{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldService,
	FieldDescription,
}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldValues holds the current input of a form, keyed by field.
type FieldValues map[Field]string

// Clone returns an independent copy.
func (v FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// FieldErrors holds one human-readable message per failing field.
type FieldErrors map[Field]string

func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for k, msg := range e {
		out[k] = msg
	}
	return out
}

// Wire converts the errors to a plain map for JSON responses.
func (e FieldErrors) Wire() map[string]string {
	out := make(map[string]string, len(e))
	for k, msg := range e {
		out[string(k)] = msg
	}
	return out
}

// ContactRequest is the JSON body of a contact form submission.
type ContactRequest struct {
	FirstName   string `json:"firstname" example:"Jo"`
	LastName    string `json:"lastname" example:"Li"`
	Email       string `json:"email" example:"a@b.com"`
	Phone       string `json:"phone" example:"12345678"`
	Service     string `json:"service" example:"Web Development"`
	Description string `json:"description" example:"Please build me a site"`
}

// Values converts the request body into form values.
func (r ContactRequest) Values() FieldValues {
	return FieldValues{
		FieldFirstName:   r.FirstName,
		FieldLastName:    r.LastName,
		FieldEmail:       r.Email,
		FieldPhone:       r.Phone,
		FieldService:     r.Service,
		FieldDescription: r.Description,
	}
}

// ContactSubmission is the validated payload of one submit attempt.
// It is immutable; build it with NewContactSubmission after validation.
type ContactSubmission struct {
	firstName   string
	lastName    string
	email       string
	phone       string
	service     string
	description string
}

// NewContactSubmission copies the given values. Callers validate first.
func NewContactSubmission(values FieldValues) ContactSubmission {
	return ContactSubmission{
		firstName:   values[FieldFirstName],
		lastName:    values[FieldLastName],
		email:       values[FieldEmail],
		phone:       values[FieldPhone],
		service:     values[FieldService],
		description: values[FieldDescription],
	}
}

func (s ContactSubmission) FirstName() string   { return s.firstName }
func (s ContactSubmission) LastName() string    { return s.lastName }
func (s ContactSubmission) Email() string       { return s.email }
func (s ContactSubmission) Phone() string       { return s.phone }
func (s ContactSubmission) Service() string     { return s.service }
func (s ContactSubmission) Description() string { return s.description }

// FullName joins first and last name.
func (s ContactSubmission) FullName() string {
	return strings.TrimSpace(s.firstName + " " + s.lastName)
}

// TemplateParams returns the payload keyed by wire name, as sent to template-based providers.
func (s ContactSubmission) TemplateParams() map[string]string {
	return map[string]string{
		string(FieldFirstName):   s.firstName,
		string(FieldLastName):    s.lastName,
		string(FieldEmail):       s.email,
		string(FieldPhone):       s.phone,
		string(FieldService):     s.service,
		string(FieldDescription): s.description,
	}
}

// DeliveryConfig identifies the provider account and template used for delivery.
// It is deployment configuration, never user input.
type DeliveryConfig struct {
	ServiceID   string
	TemplateID  string
	PublicKey   string
	AccessToken string // optional private key for providers that support strict mode
}

// Missing lists the mandatory identifiers that are empty.
func (c DeliveryConfig) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.ServiceID) == "" {
		missing = append(missing, "service_id")
	}
	if strings.TrimSpace(c.TemplateID) == "" {
		missing = append(missing, "template_id")
	}
	if strings.TrimSpace(c.PublicKey) == "" {
		missing = append(missing, "public_key")
	}
	return missing
}

// DeliveryResult is the single outcome of a delivery attempt.
type DeliveryResult struct {
	MessageID string
	Err       error
}

func Delivered(messageID string) DeliveryResult {
	return DeliveryResult{MessageID: messageID}
}

func Failed(err error) DeliveryResult {
	if err == nil {
		err = ErrDeliveryFailed
	}
	return DeliveryResult{Err: err}
}

func (r DeliveryResult) OK() bool {
	return r.Err == nil
}

type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a short transient message shown to the user.
type Notification struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

const (
	MessageSent       = "Email sent successfully!"
	MessageSendFailed = "Failed to send email. Please try again later."
)

// EmailSender delivers a submission to an external transactional-email provider.
type EmailSender interface {
	Name() string
	// CheckConfig reports whether cfg is sufficient for this provider.
	CheckConfig(cfg DeliveryConfig) error
	// Send makes exactly one delivery attempt.
	Send(ctx context.Context, cfg DeliveryConfig, sub ContactSubmission) DeliveryResult
}

// Notifier renders a notification to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// SubmitGuard admits at most one outstanding submission per key.
type SubmitGuard interface {
	Acquire(ctx context.Context, key string) (release func(), acquired bool, err error)
}

var (
	ErrUnknownField          = errors.New("unknown contact field")
	ErrSubmissionInFlight    = errors.New("a submission is already in progress")
	ErrDeliveryNotConfigured = errors.New("email delivery is not configured")
	ErrDeliveryFailed        = errors.New("email delivery failed")
	ErrValidationFailed      = errors.New("contact form validation failed")
)

// ValidationError carries the field-scoped messages that blocked a submit.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// SubmitRequest is one user-initiated submit.
type SubmitRequest struct {
	Values FieldValues
	// GuardKey scopes the in-flight guard, usually a form session id or client IP.
	GuardKey string
	// Notifier receives the outcome notification; may be nil.
	Notifier Notifier
}

// SubmitResult describes the form after a submit attempt.
type SubmitResult struct {
	Values       FieldValues  `json:"values"`
	Notification Notification `json:"notification"`
	MessageID    string       `json:"message_id,omitempty"`
}

// ContactUsecase defines the contact form operations exposed to delivery layers
type ContactUsecase interface {
	// ValidateField validates a single field value and returns its message ("" when valid).
	ValidateField(field Field, value string) (string, error)
	// Validate validates all fields.
	Validate(values FieldValues) FieldErrors
	// Submit validates and delivers one submission.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	// Services lists the offered services a visitor may pick from.
	Services() []string
	// ContactInfo lists the direct contact channels shown next to the form.
	ContactInfo() []ContactInfo
}
