package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// SaveAnnotations .
// @router /api/annotations/:submissionId [PUT]
func SaveAnnotations(ctx context.Context, c *app.RequestContext) {
	var req show.SaveAnnotationsReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.AnnotationService.SaveAnnotations(ctx, &req)
	adaptor.PostProcessWithMessage(ctx, c, &req, resp, "annotations saved", err)
}

// LoadAnnotations .
// @router /api/annotations/:submissionId [GET]
func LoadAnnotations(ctx context.Context, c *app.RequestContext) {
	var req show.LoadAnnotationsReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.AnnotationService.LoadAnnotations(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
