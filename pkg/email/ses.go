package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"portfolio-backend/internal/domain"
)

// SESAPI is the subset of the SES v2 client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESOptions configures delivery through AWS SES.
type SESOptions struct {
	Region    string
	AccessKey string
	SecretKey string
	FromEmail string
	ToEmail   string
}

// SESSender sends contact emails via AWS SES using the SDK v2.
type SESSender struct {
	opts   SESOptions
	client SESAPI
}

// NewSESSender loads AWS configuration. Static credentials are used when both keys are
// set, otherwise the default credential chain applies.
func NewSESSender(ctx context.Context, opts SESOptions) (*SESSender, error) {
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AWS config: %w", err)
	}
	return NewSESSenderWithClient(sesv2.NewFromConfig(cfg), opts), nil
}

// NewSESSenderWithClient wraps an existing client.
func NewSESSenderWithClient(client SESAPI, opts SESOptions) *SESSender {
	return &SESSender{opts: opts, client: client}
}

func (s *SESSender) Name() string { return "ses" }

func (s *SESSender) CheckConfig(cfg domain.DeliveryConfig) error {
	if s.client == nil {
		return fmt.Errorf("%w: SES client not initialized", domain.ErrDeliveryNotConfigured)
	}
	if s.opts.FromEmail == "" || s.opts.ToEmail == "" {
		return fmt.Errorf("%w: SES sender or recipient missing", domain.ErrDeliveryNotConfigured)
	}
	return templateMissing(cfg.TemplateID)
}

// Send delivers a single email through AWS SES.
func (s *SESSender) Send(ctx context.Context, cfg domain.DeliveryConfig, sub domain.ContactSubmission) domain.DeliveryResult {
	rendered, err := Render(cfg.TemplateID, sub)
	if err != nil {
		return domain.Failed(err)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.opts.FromEmail),
		Destination:      &types.Destination{ToAddresses: []string{s.opts.ToEmail}},
		ReplyToAddresses: []string{rendered.ReplyTo},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(rendered.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(rendered.HTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(rendered.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("source"), Value: aws.String("contact_form")},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return domain.Failed(fmt.Errorf("ses send failed: %w", err))
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	return domain.Delivered(messageID)
}
