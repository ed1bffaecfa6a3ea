package mail

import (
	"context"
	"essay-review/biz/infrastructure/config"
	"fmt"
)

// Message 一封待发送的邮件
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// NewSender 按配置选择邮件通道
func NewSender(config *config.Config) (Sender, error) {
	c := config.Mail
	switch c.Provider {
	case "", "console":
		return NewConsoleSender(c.From, c.SubjectPrefix), nil
	case "sendgrid":
		return NewSendgridSender(c.SendgridKey, c.FromName, c.From, c.SubjectPrefix), nil
	case "ses":
		return NewSESSender(c.SESRegion, c.From, c.SubjectPrefix)
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", c.Provider)
	}
}
