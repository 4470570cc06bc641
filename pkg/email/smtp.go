package email

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"

	"portfolio-backend/internal/domain"
)

// SMTPOptions holds the SMTP relay settings
type SMTPOptions struct {
	Host      string
	Port      string
	Username  string
	Password  string
	FromEmail string
	ToEmail   string
}

// SMTPSender handles sending contact emails via an SMTP relay
type SMTPSender struct {
	opts     SMTPOptions
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates a new SMTP sender. FromEmail defaults to the login user.
func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	if opts.FromEmail == "" {
		opts.FromEmail = opts.Username
	}
	if opts.Port == "" {
		opts.Port = "587"
	}
	return &SMTPSender{
		opts:     opts,
		sendMail: smtp.SendMail,
	}
}

func (s *SMTPSender) Name() string { return "smtp" }

// CheckConfig needs relay credentials, a recipient and a known template.
// ServiceID and PublicKey are not used by this transport.
func (s *SMTPSender) CheckConfig(cfg domain.DeliveryConfig) error {
	if s.opts.Host == "" || s.opts.Username == "" || s.opts.Password == "" {
		return fmt.Errorf("%w: smtp credentials missing", domain.ErrDeliveryNotConfigured)
	}
	if s.opts.ToEmail == "" {
		return fmt.Errorf("%w: contact recipient missing", domain.ErrDeliveryNotConfigured)
	}
	return templateMissing(cfg.TemplateID)
}

// Send renders the template and hands the message to the relay once.
// net/smtp has no context support, so ctx is not observed once the dial starts.
func (s *SMTPSender) Send(_ context.Context, cfg domain.DeliveryConfig, sub domain.ContactSubmission) domain.DeliveryResult {
	rendered, err := Render(cfg.TemplateID, sub)
	if err != nil {
		return domain.Failed(err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.opts.FromEmail,
		s.opts.ToEmail,
		rendered.ReplyTo,
		mime.QEncoding.Encode("utf-8", rendered.Subject),
		rendered.HTML,
	))

	auth := smtp.PlainAuth("", s.opts.Username, s.opts.Password, s.opts.Host)
	addr := fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)
	if err := s.sendMail(addr, auth, s.opts.FromEmail, []string{s.opts.ToEmail}, msg); err != nil {
		return domain.Failed(fmt.Errorf("failed to send email: %w", err))
	}
	return domain.Delivered("")
}
