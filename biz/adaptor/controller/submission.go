package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// SubmitAnswer .
// @router /api/submissions [POST]
func SubmitAnswer(ctx context.Context, c *app.RequestContext) {
	var req show.SubmitAnswerReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.SubmissionService.SubmitAnswer(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListSubmissions .
// @router /api/submissions [GET]
func ListSubmissions(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.SubmissionService.ListSubmissions(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}
