package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// CreateProblem .
// @router /api/essay-problems [POST]
func CreateProblem(ctx context.Context, c *app.RequestContext) {
	var req show.CreateProblemReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.ProblemService.CreateProblem(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListProblems .
// @router /api/essay-problems [GET]
func ListProblems(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.ProblemService.ListProblems(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}
