package main

import (
	"essay-review/biz/adaptor"
	handler "essay-review/biz/adaptor/controller"
	"essay-review/biz/infrastructure/consts"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// customizeRegister registers customize routers.
func customizedRegister(r *server.Hertz) {
	r.GET("/ping", handler.Ping)

	api := r.Group("/api")

	// Stripe 回调不带用户 token，依靠签名校验
	api.POST("/stripe/webhook", handler.StripeWebhook)

	authed := api.Group("", adaptor.Authenticate())
	staff := adaptor.RequireRole(consts.RoleTeacher, consts.RoleAdmin)
	{
		corrections := authed.Group("/corrections")
		corrections.POST("", adaptor.RequireRole(consts.RoleTeacher), handler.CreateCorrection)
		corrections.GET("", handler.ListCorrections)
		corrections.GET("/student/:id", handler.ListStudentCorrections)
		corrections.POST("/export", handler.ExportCorrection)
	}
	{
		payment := authed.Group("/payment")
		payment.GET("/status", handler.CheckPaymentStatus)
		payment.POST("/create", handler.CreatePayment)
		payment.POST("/update-status", adaptor.RequireRole(consts.RoleAdmin), handler.UpdatePaymentStatus)

		authed.POST("/stripe/create-session", adaptor.RequireRole(consts.RoleStudent), handler.CreateCheckoutSession)
	}
	{
		annotations := authed.Group("/annotations")
		annotations.PUT("/:submissionId",
			adaptor.RequireRole(consts.RoleTeacher),
			adaptor.PaymentMiddleware(provider.Get().PaymentService, "submissionId"),
			handler.SaveAnnotations)
		annotations.GET("/:submissionId", handler.LoadAnnotations)
	}
	{
		notifications := authed.Group("/notifications")
		notifications.POST("", staff, handler.CreateNotification)
		notifications.GET("", handler.ListNotifications)
		notifications.PUT("/mark-read", handler.MarkRead)
	}
	{
		problems := authed.Group("/essay-problems")
		problems.POST("", adaptor.RequireRole(consts.RoleTeacher), handler.CreateProblem)
		problems.GET("", handler.ListProblems)
	}
	{
		submissions := authed.Group("/submissions")
		submissions.POST("", adaptor.RequireRole(consts.RoleStudent), handler.SubmitAnswer)
		submissions.GET("", handler.ListSubmissions)
	}
}
