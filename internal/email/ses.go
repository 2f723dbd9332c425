package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/codr1/courtgrid/internal/config"
)

const eventTypeTag = "event_type"

// SES delivers notifications through AWS SESv2.
type SES struct {
	client *sesv2.Client
	from   string
}

// NewSES builds an SES mailer from static credentials. The email section
// must be complete; see config.EmailConfig.Enabled.
func NewSES(ctx context.Context, cfg config.EmailConfig) (*SES, error) {
	if !cfg.Enabled() {
		return nil, errors.New("ses region, sender and credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SES{
		client: sesv2.NewFromConfig(awsCfg),
		from:   cfg.Sender,
	}, nil
}

func (s *SES) Deliver(ctx context.Context, msg Outgoing) error {
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.EventType != "" {
		input.EmailTags = []types.MessageTag{{Name: aws.String(eventTypeTag), Value: aws.String(msg.EventType)}}
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", msg.To, err)
	}
	return nil
}
