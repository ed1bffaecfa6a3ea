package controller

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// CreateNotification .
// @router /api/notifications [POST]
func CreateNotification(ctx context.Context, c *app.RequestContext) {
	var req show.CreateNotificationReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.NotificationService.CreateNotification(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// ListNotifications .
// @router /api/notifications [GET]
func ListNotifications(ctx context.Context, c *app.RequestContext) {
	var req show.ListNotificationsReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	resp, err := p.NotificationService.ListNotifications(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// MarkRead .
// @router /api/notifications/mark-read [PUT]
func MarkRead(ctx context.Context, c *app.RequestContext) {
	var req show.MarkReadReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, consts.ErrInvalidParams)
		return
	}

	p := provider.Get()
	err := p.NotificationService.MarkRead(ctx, &req)
	adaptor.PostProcessWithMessage(ctx, c, &req, nil, "notification marked as read", err)
}
