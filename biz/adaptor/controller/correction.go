package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// CreateCorrection .
// @router /api/corrections [POST]
func CreateCorrection(ctx context.Context, c *app.RequestContext) {
	var req show.CreateCorrectionReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.CorrectionService.CreateCorrection(ctx, &req)
	adaptor.PostProcessWithMessage(ctx, c, &req, resp, "correction saved", err)
}

// ListCorrections .
// @router /api/corrections [GET]
func ListCorrections(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.CorrectionService.ListCorrections(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// ListStudentCorrections .
// @router /api/corrections/student/:id [GET]
func ListStudentCorrections(ctx context.Context, c *app.RequestContext) {
	var req show.ListStudentCorrectionsReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.CorrectionService.ListStudentCorrections(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ExportCorrection .
// @router /api/corrections/export [POST]
func ExportCorrection(ctx context.Context, c *app.RequestContext) {
	var req show.ExportCorrectionReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.CorrectionService.ExportCorrection(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
