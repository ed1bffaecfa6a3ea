package adaptor

import (
	"context"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"

	"github.com/cloudwego/hertz/pkg/app"
)

// Authenticate 解析 token，失败返回 401
func Authenticate() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		user, err := ParseToken(string(c.GetHeader(consts.Authorization)))
		if err != nil {
			log.CtxInfo(ctx, "[auth] reject %s, err=%v", c.Path(), err)
			Abort(c, consts.ErrNotAuthentication)
			return
		}
		c.Next(WithUserMeta(ctx, user))
	}
}

// RequireRole 限定角色
func RequireRole(roles ...string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		role := ExtractUserMeta(ctx).GetRole()
		for _, r := range roles {
			if r == role {
				c.Next(ctx)
				return
			}
		}
		Abort(c, consts.ErrForbidden)
	}
}

type PaymentChecker interface {
	CheckPaymentStatus(ctx context.Context, req *show.CheckPaymentStatusReq) (*show.PaymentStatusResp, error)
}

// PaymentMiddleware 未支付的答案在写入前直接返回 403
func PaymentMiddleware(checker PaymentChecker, param string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		answerID := c.Param(param)
		resp, err := checker.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: answerID})
		if err != nil {
			Abort(c, err)
			return
		}
		if !resp.IsPaid {
			if resp.Error != "" {
				Abort(c, consts.ErrUnpaid.WithMessage(resp.Error))
			} else {
				Abort(c, consts.ErrUnpaid)
			}
			return
		}
		c.Next(ctx)
	}
}
