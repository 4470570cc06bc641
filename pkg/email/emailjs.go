package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portfolio-backend/internal/domain"
)

// DefaultEmailJSURL is the public EmailJS REST endpoint.
const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSSender delivers submissions through an EmailJS service and template.
// Server-side calls require "API access from non-browser environments" to be enabled
// in the EmailJS account, plus the private key when strict mode is on.
type EmailJSSender struct {
	endpoint string
	client   *http.Client
	origin   string
}

// EmailJSOptions configures the EmailJS sender.
type EmailJSOptions struct {
	Endpoint string
	Client   *http.Client
	// Origin is sent as the Origin header; EmailJS uses it for domain allow-lists.
	Origin string
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJSSender creates an EmailJS sender. The client has no timeout of its own;
// the call is bounded by ctx and the provider.
func NewEmailJSSender(opts EmailJSOptions) *EmailJSSender {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEmailJSURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &EmailJSSender{
		endpoint: endpoint,
		client:   client,
		origin:   opts.Origin,
	}
}

func (s *EmailJSSender) Name() string { return "emailjs" }

func (s *EmailJSSender) CheckConfig(cfg domain.DeliveryConfig) error {
	if missing := cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrDeliveryNotConfigured, strings.Join(missing, ", "))
	}
	return nil
}

// Send posts the submission once. Any non-2xx status is a failed delivery carrying the
// provider's response text.
func (s *EmailJSSender) Send(ctx context.Context, cfg domain.DeliveryConfig, sub domain.ContactSubmission) domain.DeliveryResult {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      cfg.ServiceID,
		TemplateID:     cfg.TemplateID,
		UserID:         cfg.PublicKey,
		AccessToken:    cfg.AccessToken,
		TemplateParams: sub.TemplateParams(),
	})
	if err != nil {
		return domain.Failed(fmt.Errorf("failed to encode emailjs request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Failed(fmt.Errorf("failed to build emailjs request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if s.origin != "" {
		req.Header.Set("Origin", s.origin)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Failed(fmt.Errorf("emailjs request failed: %w", err))
	}
	defer resp.Body.Close()

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Failed(&ProviderError{
			Provider: s.Name(),
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(text)),
		})
	}
	return domain.Delivered("")
}

// ProviderError is a non-success response from an HTTP email provider.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return domain.ErrDeliveryFailed
}
