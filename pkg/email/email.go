package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"portfolio-backend/internal/domain"
)

// DefaultTemplateID names the built-in contact notification template.
const DefaultTemplateID = "contact"

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	FirstName   string
	LastName    string
	SenderEmail string
	Phone       string
	Service     string
	Message     string
}

// NewContactEmailData copies a submission into template data.
func NewContactEmailData(sub domain.ContactSubmission) ContactEmailData {
	return ContactEmailData{
		FirstName:   sub.FirstName(),
		LastName:    sub.LastName(),
		SenderEmail: sub.Email(),
		Phone:       sub.Phone(),
		Service:     sub.Service(),
		Message:     sub.Description(),
	}
}

// RenderedEmail is a fully rendered message ready for a transport.
type RenderedEmail struct {
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

type messageTemplate struct {
	subject string
	html    *template.Template
	text    *texttemplate.Template
}

// contactEmailTemplate is the HTML template for contact form emails
const contactEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #27272c; color: #00ff99; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .value { margin-top: 5px; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #00ff99; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Project Inquiry</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">From:</div>
                <div class="value">{{.FirstName}} {{.LastName}} ({{.SenderEmail}})</div>
            </div>
            <div class="field">
                <div class="label">Phone:</div>
                <div class="value">{{.Phone}}</div>
            </div>
            <div class="field">
                <div class="label">Service:</div>
                <div class="value">{{.Service}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent from the portfolio contact form.</p>
            <p>To reply, send an email to: {{.SenderEmail}}</p>
        </div>
    </div>
</body>
</html>`

const contactTextTemplate = `New project inquiry

From: {{.FirstName}} {{.LastName}} <{{.SenderEmail}}>
Phone: {{.Phone}}
Service: {{.Service}}

{{.Message}}
`

var templates = map[string]messageTemplate{
	DefaultTemplateID: {
		subject: "Contact Form: %s from %s %s",
		html:    template.Must(template.New("contact").Parse(contactEmailTemplate)),
		text:    texttemplate.Must(texttemplate.New("contact_text").Parse(contactTextTemplate)),
	},
}

// HasTemplate reports whether a template id is built in.
func HasTemplate(id string) bool {
	_, ok := templates[id]
	return ok
}

// Render renders the template named id for a submission.
func Render(id string, sub domain.ContactSubmission) (*RenderedEmail, error) {
	tmpl, ok := templates[id]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", id)
	}
	data := NewContactEmailData(sub)

	var html bytes.Buffer
	if err := tmpl.html.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}
	var text bytes.Buffer
	if err := tmpl.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("failed to execute text template: %w", err)
	}

	return &RenderedEmail{
		Subject: sanitizeHeader(fmt.Sprintf(tmpl.subject, data.Service, data.FirstName, data.LastName)),
		HTML:    html.String(),
		Text:    text.String(),
		ReplyTo: sanitizeHeader(data.SenderEmail),
	}, nil
}

// sanitizeHeader strips CR/LF so user input cannot inject headers.
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// templateMissing returns the config error for an unknown template id.
func templateMissing(id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing template_id", domain.ErrDeliveryNotConfigured)
	}
	if !HasTemplate(id) {
		return fmt.Errorf("%w: unknown template %q", domain.ErrDeliveryNotConfigured, id)
	}
	return nil
}
