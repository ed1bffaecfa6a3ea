package mail

import (
	"context"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/bytedance/gopkg/util/gopool"
)

const defaultBackoff = time.Second

// IDispatcher 异步发送，调用方不等待结果
type IDispatcher interface {
	Dispatch(ctx context.Context, msg *Message)
}

type Dispatcher struct {
	sender  Sender
	retries int
	backoff time.Duration
	pool    gopool.Pool
}

func NewDispatcher(config *config.Config, sender Sender) *Dispatcher {
	return newDispatcher(sender, config.Mail.Retries, defaultBackoff)
}

func newDispatcher(sender Sender, retries int, backoff time.Duration) *Dispatcher {
	if retries < 1 {
		retries = 1
	}
	return &Dispatcher{
		sender:  sender,
		retries: retries,
		backoff: backoff,
		pool:    gopool.NewPool("mail", 64, gopool.NewConfig()),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) {
	// 脱离请求生命周期，请求结束后继续发送
	ctx = context.WithoutCancel(ctx)
	d.pool.CtxGo(ctx, func() {
		d.send(ctx, msg)
	})
}

func (d *Dispatcher) send(ctx context.Context, msg *Message) {
	var err error
	for i := 0; i < d.retries; i++ {
		if err = d.sender.Send(ctx, msg); err == nil {
			return
		}
		log.CtxError(ctx, "[mail] send to %s failed, attempt %d/%d, err=%v", msg.To, i+1, d.retries, err)
		if i < d.retries-1 {
			time.Sleep(d.backoff * time.Duration(i+1))
		}
	}
	log.CtxError(ctx, "[mail] give up sending to %s, err=%v", msg.To, err)
}
