package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/tutorlink/platform/internal/pkg/logger"
)

// Mailer delivers notification emails. Implementations are best-effort: the
// dispatcher logs failures and moves on, it never fails an event over email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SESMailer sends notification emails through AWS SES.
type SESMailer struct {
	client *sesv2.Client
	from   string
}

// NewSESMailer creates an SES mailer. Returns nil (disabled) when
// credentials are missing so callers can wire it unconditionally.
func NewSESMailer(accessKey, secretKey, region, from string) *SESMailer {
	if accessKey == "" || secretKey == "" {
		return nil
	}
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		log.Printf("[notify] SES init failed, email disabled: %v", err)
		return nil
	}
	return &SESMailer{client: sesv2.NewFromConfig(cfg), from: from}
}

// Send delivers a single plain-text email.
func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	logger.Debug("notification email sent", "to", to, "message_id", messageID)
	return nil
}
