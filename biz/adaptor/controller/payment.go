package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// CheckPaymentStatus .
// @router /api/payment/status [GET]
func CheckPaymentStatus(ctx context.Context, c *app.RequestContext) {
	var req show.CheckPaymentStatusReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.PaymentService.CheckPaymentStatus(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// CreatePayment .
// @router /api/payment/create [POST]
func CreatePayment(ctx context.Context, c *app.RequestContext) {
	var req show.CreatePaymentReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.PaymentService.CreatePayment(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// UpdatePaymentStatus .
// @router /api/payment/update-status [POST]
func UpdatePaymentStatus(ctx context.Context, c *app.RequestContext) {
	var req show.UpdatePaymentStatusReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.PaymentService.UpdatePaymentStatus(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// CreateCheckoutSession .
// @router /api/stripe/create-session [POST]
func CreateCheckoutSession(ctx context.Context, c *app.RequestContext) {
	var req show.CreateCheckoutSessionReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.PaymentService.CreateCheckoutSession(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// StripeWebhook 需要原始 body 校验签名，不做绑定
// @router /api/stripe/webhook [POST]
func StripeWebhook(ctx context.Context, c *app.RequestContext) {
	payload := c.Request.Body()
	signature := string(c.GetHeader(consts.StripeSignature))

	p := provider.Get()
	resp, err := p.PaymentService.HandleWebhook(ctx, payload, signature)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}
