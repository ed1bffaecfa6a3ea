package service

import (
	"context"
	"errors"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/gateway"
	"essay-review/biz/infrastructure/repository/payment"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/util/log"
	"fmt"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IPaymentService interface {
	CheckPaymentStatus(ctx context.Context, req *show.CheckPaymentStatusReq) (*show.PaymentStatusResp, error)
	CreatePayment(ctx context.Context, req *show.CreatePaymentReq) (*show.Payment, error)
	UpdatePaymentStatus(ctx context.Context, req *show.UpdatePaymentStatusReq) (*show.Payment, error)
	CreateCheckoutSession(ctx context.Context, req *show.CreateCheckoutSessionReq) (*show.CreateCheckoutSessionResp, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*show.WebhookResp, error)
}

type PaymentService struct {
	PaymentMapper    payment.IMongoMapper
	SubmissionMapper submission.IMongoMapper
	Gateway          gateway.IGateway
}

var PaymentServiceSet = wire.NewSet(
	wire.Struct(new(PaymentService), "*"),
	wire.Bind(new(IPaymentService), new(*PaymentService)),
)

// CheckPaymentStatus 支付门禁，结果中的 Error 说明未支付原因
func (s *PaymentService) CheckPaymentStatus(ctx context.Context, req *show.CheckPaymentStatusReq) (*show.PaymentStatusResp, error) {
	if _, err := primitive.ObjectIDFromHex(req.AnswerId); err != nil {
		return &show.PaymentStatusResp{IsPaid: false, Error: consts.ErrInvalidAnswerFormat.Error()}, nil
	}

	_, err := s.PaymentMapper.FindPaidByAnswer(ctx, req.AnswerId)
	switch {
	case err == nil:
		return &show.PaymentStatusResp{IsPaid: true}, nil
	case errors.Is(err, consts.ErrNotFound):
		return &show.PaymentStatusResp{IsPaid: false, Error: consts.ErrUnpaid.Error()}, nil
	default:
		log.CtxError(ctx, "查询支付状态失败: answerId=%s, err=%v", req.AnswerId, err)
		return &show.PaymentStatusResp{IsPaid: false, Error: consts.ErrCheckPayment.Error()}, nil
	}
}

// CreatePayment 手动发起支付，学生只能为自己的答案发起，管理员可代付
func (s *PaymentService) CreatePayment(ctx context.Context, req *show.CreatePaymentReq) (*show.Payment, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	studentID := userMeta.GetUserId()
	switch userMeta.GetRole() {
	case consts.RoleStudent:
	case consts.RoleAdmin:
		if req.StudentId == "" {
			return nil, consts.ErrMissingFields
		}
		studentID = req.StudentId
	default:
		return nil, consts.ErrForbidden
	}

	if req.AnswerId == "" {
		return nil, consts.ErrMissingFields
	}
	if req.Amount <= 0 {
		return nil, consts.ErrInvalidAmount
	}
	if err := s.checkAnswerOwner(ctx, req.AnswerId, studentID); err != nil {
		return nil, err
	}

	_, err := s.PaymentMapper.FindActive(ctx, studentID, req.AnswerId)
	if err == nil {
		return nil, consts.ErrPaymentExists
	}
	if !errors.Is(err, consts.ErrNotFound) {
		log.CtxError(ctx, "查询支付记录失败: %v", err)
		return nil, consts.ErrCreatePayment
	}

	method := req.Method
	if method == "" {
		method = consts.MethodManual
	}
	p := &payment.Payment{
		StudentID: studentID,
		AnswerID:  req.AnswerId,
		Amount:    req.Amount,
		Status:    consts.PaymentPending,
		Method:    method,
	}
	if err = s.PaymentMapper.Insert(ctx, p); err != nil {
		log.CtxError(ctx, "创建支付失败: %v", err)
		return nil, consts.ErrCreatePayment
	}
	return toPaymentDTO(p), nil
}

// UpdatePaymentStatus 管理员修改支付状态
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, req *show.UpdatePaymentStatusReq) (*show.Payment, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleAdmin {
		return nil, consts.ErrAdminOnly
	}
	if req.PaymentId == "" || req.Status == "" {
		return nil, consts.ErrMissingFields
	}
	if !validPaymentStatus(req.Status) {
		return nil, consts.ErrInvalidStatus
	}

	err := s.PaymentMapper.UpdateStatus(ctx, req.PaymentId, req.Status, req.TransactionId)
	switch {
	case err == nil:
	case errors.Is(err, consts.ErrNotFound):
		return nil, consts.ErrPaymentNotFound
	case errors.Is(err, consts.ErrInvalidObjectId):
		return nil, err
	default:
		log.CtxError(ctx, "更新支付状态失败: %v", err)
		return nil, consts.ErrUpdatePayment
	}

	return &show.Payment{
		Id:            req.PaymentId,
		Status:        req.Status,
		TransactionId: req.TransactionId,
	}, nil
}

// CreateCheckoutSession 创建待支付记录并生成 Stripe 收银台
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, req *show.CreateCheckoutSessionReq) (*show.CreateCheckoutSessionResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleStudent {
		return nil, consts.ErrStudentOnly
	}
	if req.AnswerId == "" {
		return nil, consts.ErrMissingFields
	}
	if req.Amount <= 0 {
		return nil, consts.ErrInvalidAmount
	}
	if err := s.checkAnswerOwner(ctx, req.AnswerId, userMeta.GetUserId()); err != nil {
		return nil, err
	}

	// 已有待支付记录则复用，已支付则拒绝
	p, err := s.PaymentMapper.FindActive(ctx, userMeta.GetUserId(), req.AnswerId)
	switch {
	case err == nil:
		if p.Status == consts.PaymentPaid {
			return nil, consts.ErrPaymentExists
		}
	case errors.Is(err, consts.ErrNotFound):
		p = &payment.Payment{
			StudentID: userMeta.GetUserId(),
			AnswerID:  req.AnswerId,
			Amount:    req.Amount,
			Status:    consts.PaymentPending,
			Method:    consts.MethodStripe,
		}
		if err = s.PaymentMapper.Insert(ctx, p); err != nil {
			log.CtxError(ctx, "创建支付失败: %v", err)
			return nil, consts.ErrCreatePayment
		}
	default:
		log.CtxError(ctx, "查询支付记录失败: %v", err)
		return nil, consts.ErrCreatePayment
	}

	frontend := config.GetConfig().Api.FrontendURL
	session, err := s.Gateway.CreateCheckoutSession(ctx, &gateway.CheckoutParams{
		PaymentID:     p.ID.Hex(),
		AnswerID:      req.AnswerId,
		Amount:        p.Amount,
		CustomerEmail: userMeta.GetEmail(),
		SuccessURL:    fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}", frontend),
		CancelURL:     fmt.Sprintf("%s/payment/cancel?answerId=%s", frontend, req.AnswerId),
	})
	if err != nil {
		log.CtxError(ctx, "创建 Stripe 会话失败: paymentId=%s, err=%v", p.ID.Hex(), err)
		if uerr := s.PaymentMapper.MarkFailed(ctx, p.ID.Hex()); uerr != nil {
			log.CtxError(ctx, "标记支付失败出错: paymentId=%s, err=%v", p.ID.Hex(), uerr)
		}
		return nil, consts.ErrCreateSession
	}

	return &show.CreateCheckoutSessionResp{
		SessionId: session.ID,
		Url:       session.URL,
		PaymentId: p.ID.Hex(),
	}, nil
}

// HandleWebhook 处理 Stripe 回调，未知事件直接确认
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*show.WebhookResp, error) {
	event, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		log.CtxInfo(ctx, "webhook 签名校验失败: %v", err)
		return nil, consts.ErrWebhookSignature
	}

	var status string
	switch event.Type {
	case gateway.EventCheckoutCompleted, gateway.EventPaymentSucceeded:
		status = consts.PaymentPaid
	case gateway.EventPaymentFailed:
		status = consts.PaymentFailed
	default:
		log.CtxInfo(ctx, "忽略 webhook 事件: %s", event.Type)
		return &show.WebhookResp{Received: true}, nil
	}

	if event.PaymentID == "" {
		log.CtxInfo(ctx, "webhook 事件缺少 paymentId: %s", event.Type)
		return &show.WebhookResp{Received: true}, nil
	}

	if status == consts.PaymentFailed {
		// 迟到的失败事件不能关闭已支付答案的批改入口
		err = s.PaymentMapper.MarkFailed(ctx, event.PaymentID)
	} else {
		var txID *string
		if event.TransactionID != "" {
			txID = &event.TransactionID
		}
		err = s.PaymentMapper.UpdateStatus(ctx, event.PaymentID, status, txID)
	}
	switch {
	case err == nil:
		log.CtxInfo(ctx, "支付状态更新: paymentId=%s, status=%s", event.PaymentID, status)
	case errors.Is(err, consts.ErrPaymentSettled):
		log.CtxInfo(ctx, "忽略已支付记录的失败事件: paymentId=%s", event.PaymentID)
	case errors.Is(err, consts.ErrNotFound), errors.Is(err, consts.ErrInvalidObjectId):
		log.CtxError(ctx, "webhook 对应支付不存在: paymentId=%s", event.PaymentID)
	default:
		log.CtxError(ctx, "webhook 更新支付失败: paymentId=%s, err=%v", event.PaymentID, err)
		return nil, consts.ErrUpdatePayment
	}
	return &show.WebhookResp{Received: true}, nil
}

func (s *PaymentService) checkAnswerOwner(ctx context.Context, answerID, studentID string) error {
	sub, err := s.SubmissionMapper.FindOne(ctx, answerID)
	switch {
	case err == nil:
	case errors.Is(err, consts.ErrNotFound), errors.Is(err, consts.ErrInvalidObjectId):
		return err
	default:
		log.CtxError(ctx, "查询提交失败: %v", err)
		return consts.ErrCall
	}
	if sub.StudentID != studentID {
		return consts.ErrForbidden
	}
	return nil
}

func validPaymentStatus(status string) bool {
	switch status {
	case consts.PaymentPending, consts.PaymentPaid, consts.PaymentFailed:
		return true
	}
	return false
}

func toPaymentDTO(p *payment.Payment) *show.Payment {
	return &show.Payment{
		Id:            p.ID.Hex(),
		StudentId:     p.StudentID,
		AnswerId:      p.AnswerID,
		Amount:        p.Amount,
		Status:        p.Status,
		Method:        p.Method,
		TransactionId: p.TransactionID,
		CreatedAt:     p.CreateTime,
		UpdatedAt:     p.UpdateTime,
	}
}
