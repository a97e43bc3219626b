// Package ses implements the Mailer capability on AWS SES v2.
package ses

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/Oolga/ses-courier/internal/email"
	"github.com/Oolga/ses-courier/internal/mailer"
)

// Config holds the settings for creating a Mailer.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// API is the subset of the SES v2 client used by Mailer.
// Narrowed so tests can substitute mock implementations.
type API interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
	CreateEmailIdentity(ctx context.Context, params *sesv2.CreateEmailIdentityInput, optFns ...func(*sesv2.Options)) (*sesv2.CreateEmailIdentityOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// Mailer dispatches email via the AWS SES v2 API. The client is fixed at
// construction and reused across calls; the Mailer itself holds no other
// state.
type Mailer struct {
	client API
}

// New creates a new Mailer with the given configuration. Static
// credentials take precedence when set; otherwise the default credential
// chain applies.
func New(ctx context.Context, cfg Config) (*Mailer, error) {
	var opts []func(*awsconfig.LoadOptions) error

	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Mailer{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a Mailer with a custom client, used for testing.
func NewWithClient(client API) *Mailer {
	return &Mailer{client: client}
}

// Send dispatches the message as structured fields. The HTML part is
// always present; a text part only when TextBody was supplied. Cc and Bcc
// appear in the destination only when non-empty.
func (m *Mailer) Send(ctx context.Context, msg *email.Message) (*mailer.Receipt, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	dest := &types.Destination{ToAddresses: msg.To}
	if len(msg.Cc) > 0 {
		dest.CcAddresses = msg.Cc
	}
	if len(msg.Bcc) > 0 {
		dest.BccAddresses = msg.Bcc
	}

	body := &types.Body{
		Html: &types.Content{
			Data:    aws.String(msg.HTMLBody),
			Charset: aws.String("UTF-8"),
		},
	}
	if msg.TextBody != "" {
		body.Text = &types.Content{
			Data:    aws.String(msg.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination:      dest,
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	})
	if err != nil {
		return nil, mailer.Classify("send", err)
	}

	return &mailer.Receipt{MessageID: aws.ToString(out.MessageId)}, nil
}

// SendRaw serializes the message as a multipart/alternative document and
// submits it verbatim. Delivery targets come from the explicit destination
// list; the document's To header is cosmetic.
func (m *Mailer) SendRaw(ctx context.Context, msg *email.Message) (*mailer.Receipt, error) {
	raw, err := email.BuildRaw(msg)
	if err != nil {
		return nil, err
	}

	out, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &types.Destination{
			ToAddresses: msg.Recipients(),
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return nil, mailer.Classify("send raw", err)
	}

	return &mailer.Receipt{MessageID: aws.ToString(out.MessageId)}, nil
}

// VerifyIdentity asks SES to start verification of the given address.
// An identity that already exists counts as accepted: verification was
// already requested for it.
func (m *Mailer) VerifyIdentity(ctx context.Context, address string) error {
	_, err := m.client.CreateEmailIdentity(ctx, &sesv2.CreateEmailIdentityInput{
		EmailIdentity: aws.String(address),
	})
	if err != nil {
		var exists *types.AlreadyExistsException
		if errors.As(err, &exists) {
			return nil
		}
		return mailer.Classify("verify identity", err)
	}
	return nil
}

// SendQuota reports the account's sending ceiling, maximum rate and usage
// in the current rolling 24-hour window.
func (m *Mailer) SendQuota(ctx context.Context) (*mailer.Quota, error) {
	out, err := m.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return nil, mailer.Classify("get send quota", err)
	}

	quota := &mailer.Quota{}
	if sq := out.SendQuota; sq != nil {
		quota.Max24HourSend = sq.Max24HourSend
		quota.MaxSendRate = sq.MaxSendRate
		quota.SentLast24Hours = sq.SentLast24Hours
	}
	return quota, nil
}

// Name returns the backend name.
func (m *Mailer) Name() string {
	return "ses"
}
