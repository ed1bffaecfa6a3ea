package mail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type SendgridSender struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	client     *rest.Client
}

func NewSendgridSender(key, fromName, fromEmail, subjPrefix string) *SendgridSender {
	return &SendgridSender{
		key:        key,
		from:       sgmail.NewEmail(fromName, fromEmail),
		subjPrefix: subjPrefix,
		client: &rest.Client{HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}},
	}
}

func (s *SendgridSender) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	return m
}

func (s *SendgridSender) Send(ctx context.Context, msg *Message) error {
	req := sendgrid.GetRequest(s.key, endpoint, host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
