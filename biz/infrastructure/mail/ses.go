package mail

import (
	"context"
	"essay-review/biz/infrastructure/consts"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

type SESSender struct {
	client     sesiface.SESAPI
	from       string
	subjPrefix string
}

func NewSESSender(region, from, subjPrefix string) (*SESSender, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("create aws session failed: %w", err)
	}
	return &SESSender{client: ses.New(sess), from: from, subjPrefix: subjPrefix}, nil
}

func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	_, err := s.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(msg.To)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{Charset: aws.String(consts.CharSetUTF8), Data: aws.String(s.subjPrefix + msg.Subject)},
			Body: &ses.Body{
				Html: &ses.Content{Charset: aws.String(consts.CharSetUTF8), Data: aws.String(msg.HTML)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}
	return nil
}
