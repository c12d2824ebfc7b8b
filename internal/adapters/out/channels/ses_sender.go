package channels

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends plain-text email through Amazon SES v2.
type SESSender struct {
	client sesAPI
	from   string
}

func NewSESSender(client sesAPI, from string) (*SESSender, error) {
	if from == "" {
		return nil, errs.NewValueIsRequiredError("from")
	}
	return &SESSender{client: client, from: from}, nil
}

// NewSESSenderForRegion builds the SES client from the default AWS credential
// chain.
func NewSESSenderForRegion(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSESSender(sesv2.NewFromConfig(cfg), from)
}

func (s *SESSender) Send(ctx context.Context, target, subject, message string) error {
	if target == "" {
		return errs.NewValueIsRequiredError("email")
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{target}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(message), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return errs.NewUpstreamError("ses", "send email", err)
	}
	if out == nil || aws.ToString(out.MessageId) == "" {
		return errs.NewUpstreamError("ses", "send email", errors.New("no message id returned"))
	}
	return nil
}
