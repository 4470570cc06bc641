package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
)

func testSubmission() domain.ContactSubmission {
	return domain.NewContactSubmission(domain.ContactRequest{
		FirstName:   "Jo",
		LastName:    "Li",
		Email:       "a@b.com",
		Phone:       "12345678",
		Service:     "Web Development",
		Description: "Please build me a <site>",
	}.Values())
}

var testConfig = domain.DeliveryConfig{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"}

func TestRenderEscapesHTML(t *testing.T) {
	rendered, err := Render(DefaultTemplateID, testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "Contact Form: Web Development from Jo Li", rendered.Subject)
	assert.Contains(t, rendered.HTML, "Please build me a &lt;site&gt;")
	assert.Contains(t, rendered.Text, "Please build me a <site>")
	assert.Equal(t, "a@b.com", rendered.ReplyTo)

	_, err = Render("nope", testSubmission())
	assert.Error(t, err)
}

func TestSanitizeHeader(t *testing.T) {
	assert.Equal(t, "a@b.comBcc: x@y.z", sanitizeHeader("a@b.com\r\nBcc: x@y.z"))
}

func TestEmailJSSenderSuccess(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://portfolio.example", r.Header.Get("Origin"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	s := NewEmailJSSender(EmailJSOptions{Endpoint: srv.URL, Origin: "https://portfolio.example"})
	require.NoError(t, s.CheckConfig(testConfig))

	res := s.Send(context.Background(), testConfig, testSubmission())
	require.True(t, res.OK(), "unexpected error: %v", res.Err)

	assert.Equal(t, "service_x", got.ServiceID)
	assert.Equal(t, "template_y", got.TemplateID)
	assert.Equal(t, "pk_z", got.UserID)
	assert.Empty(t, got.AccessToken)
	assert.Equal(t, "12345678", got.TemplateParams["phone"])
	assert.Equal(t, "Web Development", got.TemplateParams["service"])
}

func TestEmailJSSenderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("The Public Key is invalid"))
	}))
	defer srv.Close()

	res := NewEmailJSSender(EmailJSOptions{Endpoint: srv.URL}).Send(context.Background(), testConfig, testSubmission())
	require.False(t, res.OK())

	var perr *ProviderError
	require.True(t, errors.As(res.Err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.Status)
	assert.Equal(t, "The Public Key is invalid", perr.Body)
	assert.ErrorIs(t, res.Err, domain.ErrDeliveryFailed)
}

func TestEmailJSSenderCheckConfig(t *testing.T) {
	err := NewEmailJSSender(EmailJSOptions{}).CheckConfig(domain.DeliveryConfig{ServiceID: "s"})
	assert.ErrorIs(t, err, domain.ErrDeliveryNotConfigured)
	assert.Contains(t, err.Error(), "template_id, public_key")
}

func TestSMTPSender(t *testing.T) {
	s := NewSMTPSender(SMTPOptions{Host: "smtp.example.com", Username: "user@example.com", Password: "pw", ToEmail: "me@example.com"})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg string
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	cfg := domain.DeliveryConfig{TemplateID: DefaultTemplateID}
	require.NoError(t, s.CheckConfig(cfg))

	res := s.Send(context.Background(), cfg, testSubmission())
	require.True(t, res.OK())
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "user@example.com", gotFrom)
	assert.Equal(t, []string{"me@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: user@example.com\r\nTo: me@example.com\r\nReply-To: a@b.com\r\n"))

	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }
	res = s.Send(context.Background(), cfg, testSubmission())
	assert.False(t, res.OK())
	assert.Contains(t, res.Err.Error(), "535 auth failed")
}

func TestSMTPSenderEncodesNonASCIISubject(t *testing.T) {
	s := NewSMTPSender(SMTPOptions{Host: "smtp.example.com", Username: "user@example.com", Password: "pw", ToEmail: "me@example.com"})
	var gotMsg string
	s.sendMail = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	sub := domain.NewContactSubmission(domain.ContactRequest{
		FirstName:   "Søren",
		LastName:    "Li",
		Email:       "a@b.com",
		Phone:       "12345678",
		Service:     "Web Development",
		Description: "Please build me a site",
	}.Values())
	cfg := domain.DeliveryConfig{TemplateID: DefaultTemplateID}
	require.True(t, s.Send(context.Background(), cfg, sub).OK())

	var subject string
	for _, line := range strings.Split(gotMsg, "\r\n") {
		if strings.HasPrefix(line, "Subject: ") {
			subject = strings.TrimPrefix(line, "Subject: ")
			break
		}
	}
	assert.True(t, strings.HasPrefix(subject, "=?utf-8?q?"), "got %q", subject)

	decoded, err := new(mime.WordDecoder).DecodeHeader(subject)
	require.NoError(t, err)
	rendered, err := Render(DefaultTemplateID, sub)
	require.NoError(t, err)
	assert.Equal(t, rendered.Subject, decoded)
	assert.Contains(t, decoded, "Søren")
}

func TestSMTPSenderCheckConfig(t *testing.T) {
	assert.ErrorIs(t, NewSMTPSender(SMTPOptions{}).CheckConfig(domain.DeliveryConfig{TemplateID: "contact"}), domain.ErrDeliveryNotConfigured)

	s := NewSMTPSender(SMTPOptions{Host: "h", Username: "u", Password: "p", ToEmail: "t"})
	assert.ErrorIs(t, s.CheckConfig(domain.DeliveryConfig{TemplateID: "unknown"}), domain.ErrDeliveryNotConfigured)
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sesv2.SendEmailOutput), args.Error(1)
}

func TestSESSender(t *testing.T) {
	client := new(mockSES)
	s := NewSESSenderWithClient(client, SESOptions{FromEmail: "noreply@example.com", ToEmail: "me@example.com"})
	cfg := domain.DeliveryConfig{TemplateID: DefaultTemplateID}
	require.NoError(t, s.CheckConfig(cfg))

	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "noreply@example.com" &&
			in.Destination.ToAddresses[0] == "me@example.com" &&
			in.ReplyToAddresses[0] == "a@b.com"
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("ses-123")}, nil).Once()

	res := s.Send(context.Background(), cfg, testSubmission())
	require.True(t, res.OK())
	assert.Equal(t, "ses-123", res.MessageID)

	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()
	res = s.Send(context.Background(), cfg, testSubmission())
	assert.False(t, res.OK())
	client.AssertExpectations(t)
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "emailjs", s.Name())

	s, err = NewSender(context.Background(), Options{Provider: "SMTP"})
	require.NoError(t, err)
	assert.Equal(t, "smtp", s.Name())

	_, err = NewSender(context.Background(), Options{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
