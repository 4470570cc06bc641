package email

import (
	"context"
	"fmt"
	"strings"

	"portfolio-backend/internal/domain"
)

// Options selects and configures one delivery provider.
type Options struct {
	Provider string // emailjs, smtp or ses
	EmailJS  EmailJSOptions
	SMTP     SMTPOptions
	SES      SESOptions
}

// NewSender builds the configured provider.
func NewSender(ctx context.Context, opts Options) (domain.EmailSender, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "emailjs":
		return NewEmailJSSender(opts.EmailJS), nil
	case "smtp":
		return NewSMTPSender(opts.SMTP), nil
	case "ses":
		sender, err := NewSESSender(ctx, opts.SES)
		if err != nil {
			return nil, err
		}
		return sender, nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", opts.Provider)
	}
}
