package mail

import (
	"context"
	"essay-review/biz/infrastructure/util/log"
)

// ConsoleSender 只打日志，用于本地开发
type ConsoleSender struct {
	from       string
	subjPrefix string
}

func NewConsoleSender(from, subjPrefix string) *ConsoleSender {
	return &ConsoleSender{from: from, subjPrefix: subjPrefix}
}

func (s *ConsoleSender) Send(ctx context.Context, msg *Message) error {
	log.CtxInfo(ctx, "[mail] from=%s to=%s subject=%s\n%s", s.from, msg.To, s.subjPrefix+msg.Subject, msg.HTML)
	return nil
}
