package service

import (
	"context"
	"errors"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/gateway"
	"essay-review/biz/infrastructure/repository/payment"
	"essay-review/biz/infrastructure/repository/submission"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type paymentFixture struct {
	svc       *PaymentService
	payments  *fakePayments
	gw        *fakeGateway
	studentID string
	answerID  string
}

func newPaymentFixture() *paymentFixture {
	c := &config.Config{}
	c.Api.FrontendURL = "https://essay.example.com"
	config.SetConfig(c)

	studentID := newID()
	sub := &submission.Submission{ID: primitive.NewObjectID(), StudentID: studentID, ProblemID: newID(), Status: consts.SubmissionSubmitted}
	f := &paymentFixture{
		payments:  newFakePayments(),
		gw:        &fakeGateway{},
		studentID: studentID,
		answerID:  sub.ID.Hex(),
	}
	f.svc = &PaymentService{
		PaymentMapper:    f.payments,
		SubmissionMapper: newFakeSubmissions(sub),
		Gateway:          f.gw,
	}
	return f
}

func (f *paymentFixture) studentCtx() context.Context {
	return userCtx(f.studentID, consts.RoleStudent)
}

func TestCheckPaymentStatus(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()

	resp, err := f.svc.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: "not-an-id"})
	require.NoError(t, err)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, consts.ErrInvalidAnswerFormat.Error(), resp.Error)

	resp, err = f.svc.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: f.answerID})
	require.NoError(t, err)
	assert.False(t, resp.IsPaid)
	assert.NotEmpty(t, resp.Error)

	pending := paidPayment(f.studentID, f.answerID)
	pending.Status = consts.PaymentPending
	_ = f.payments.Insert(ctx, pending)
	resp, err = f.svc.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: f.answerID})
	require.NoError(t, err)
	assert.False(t, resp.IsPaid)

	_ = f.payments.Insert(ctx, paidPayment(f.studentID, f.answerID))
	resp, err = f.svc.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: f.answerID})
	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	assert.Empty(t, resp.Error)
}

func TestCheckPaymentStatus_LookupError(t *testing.T) {
	f := newPaymentFixture()
	f.payments.findErr = errors.New("mongo down")

	resp, err := f.svc.CheckPaymentStatus(context.Background(), &show.CheckPaymentStatusReq{AnswerId: f.answerID})
	require.NoError(t, err)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, consts.ErrCheckPayment.Error(), resp.Error)
}

func TestCreatePayment(t *testing.T) {
	f := newPaymentFixture()

	p, err := f.svc.CreatePayment(f.studentCtx(), &show.CreatePaymentReq{AnswerId: f.answerID, Amount: 10000})
	require.NoError(t, err)
	assert.Equal(t, consts.PaymentPending, p.Status)
	assert.Equal(t, consts.MethodManual, p.Method)
	assert.Equal(t, f.studentID, p.StudentId)

	_, err = f.svc.CreatePayment(f.studentCtx(), &show.CreatePaymentReq{AnswerId: f.answerID, Amount: 10000})
	assert.Equal(t, consts.ErrPaymentExists, err)
	assert.Len(t, f.payments.items, 1)

	_, err = f.svc.CreatePayment(f.studentCtx(), &show.CreatePaymentReq{AnswerId: f.answerID, Amount: 0})
	assert.Equal(t, consts.ErrInvalidAmount, err)

	_, err = f.svc.CreatePayment(userCtx(newID(), consts.RoleStudent), &show.CreatePaymentReq{AnswerId: f.answerID, Amount: 100})
	assert.Equal(t, consts.ErrForbidden, err)

	_, err = f.svc.CreatePayment(userCtx(newID(), consts.RoleTeacher), &show.CreatePaymentReq{AnswerId: f.answerID, Amount: 100})
	assert.Equal(t, consts.ErrForbidden, err)
}

func TestUpdatePaymentStatus(t *testing.T) {
	f := newPaymentFixture()
	p := paidPayment(f.studentID, f.answerID)
	p.Status = consts.PaymentPending
	_ = f.payments.Insert(context.Background(), p)
	admin := userCtx(newID(), consts.RoleAdmin)
	txID := "txn_1"

	_, err := f.svc.UpdatePaymentStatus(f.studentCtx(), &show.UpdatePaymentStatusReq{PaymentId: p.ID.Hex(), Status: consts.PaymentPaid})
	assert.Equal(t, consts.ErrAdminOnly, err)

	_, err = f.svc.UpdatePaymentStatus(admin, &show.UpdatePaymentStatusReq{PaymentId: p.ID.Hex(), Status: "refunded"})
	assert.Equal(t, consts.ErrInvalidStatus, err)

	_, err = f.svc.UpdatePaymentStatus(admin, &show.UpdatePaymentStatusReq{PaymentId: newID(), Status: consts.PaymentPaid})
	assert.Equal(t, consts.ErrPaymentNotFound, err)

	resp, err := f.svc.UpdatePaymentStatus(admin, &show.UpdatePaymentStatusReq{PaymentId: p.ID.Hex(), Status: consts.PaymentPaid, TransactionId: &txID})
	require.NoError(t, err)
	assert.Equal(t, consts.PaymentPaid, resp.Status)
	assert.Equal(t, consts.PaymentPaid, f.payments.items[p.ID.Hex()].Status)
	assert.Equal(t, "txn_1", *f.payments.items[p.ID.Hex()].TransactionID)
}

func TestCreateCheckoutSession(t *testing.T) {
	f := newPaymentFixture()

	resp, err := f.svc.CreateCheckoutSession(f.studentCtx(), &show.CreateCheckoutSessionReq{AnswerId: f.answerID, Amount: 15000})
	require.NoError(t, err)
	assert.Equal(t, "cs_test", resp.SessionId)
	require.Contains(t, f.payments.items, resp.PaymentId)
	p := f.payments.items[resp.PaymentId]
	assert.Equal(t, consts.PaymentPending, p.Status)
	assert.Equal(t, consts.MethodStripe, p.Method)
	assert.Equal(t, resp.PaymentId, f.gw.params.PaymentID)
	assert.Contains(t, f.gw.params.SuccessURL, "https://essay.example.com")

	// 待支付记录复用
	again, err := f.svc.CreateCheckoutSession(f.studentCtx(), &show.CreateCheckoutSessionReq{AnswerId: f.answerID, Amount: 15000})
	require.NoError(t, err)
	assert.Equal(t, resp.PaymentId, again.PaymentId)
	assert.Len(t, f.payments.items, 1)

	p.Status = consts.PaymentPaid
	_, err = f.svc.CreateCheckoutSession(f.studentCtx(), &show.CreateCheckoutSessionReq{AnswerId: f.answerID, Amount: 15000})
	assert.Equal(t, consts.ErrPaymentExists, err)
}

func TestCreateCheckoutSession_GatewayFailureMarksFailed(t *testing.T) {
	f := newPaymentFixture()
	f.gw.sessionErr = errors.New("stripe unavailable")

	_, err := f.svc.CreateCheckoutSession(f.studentCtx(), &show.CreateCheckoutSessionReq{AnswerId: f.answerID, Amount: 15000})
	assert.Equal(t, consts.ErrCreateSession, err)
	require.Len(t, f.payments.items, 1)
	for _, p := range f.payments.items {
		assert.Equal(t, consts.PaymentFailed, p.Status)
	}
}

func TestHandleWebhook(t *testing.T) {
	f := newPaymentFixture()
	p := &payment.Payment{ID: primitive.NewObjectID(), StudentID: f.studentID, AnswerID: f.answerID, Amount: 100, Status: consts.PaymentPending, Method: consts.MethodStripe}
	_ = f.payments.Insert(context.Background(), p)

	f.gw.event = &gateway.Event{Type: gateway.EventCheckoutCompleted, PaymentID: p.ID.Hex(), TransactionID: "pi_123"}
	resp, err := f.svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.True(t, resp.Received)
	assert.Equal(t, consts.PaymentPaid, p.Status)
	assert.Equal(t, "pi_123", *p.TransactionID)

	// 支付成功后迟到的失败事件被确认但不生效
	f.gw.event = &gateway.Event{Type: gateway.EventPaymentFailed, PaymentID: p.ID.Hex()}
	resp, err = f.svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.True(t, resp.Received)
	assert.Equal(t, consts.PaymentPaid, p.Status)
	paid, err := f.svc.CheckPaymentStatus(context.Background(), &show.CheckPaymentStatusReq{AnswerId: f.answerID})
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	pending := &payment.Payment{ID: primitive.NewObjectID(), StudentID: f.studentID, AnswerID: newID(), Amount: 100, Status: consts.PaymentPending, Method: consts.MethodStripe}
	_ = f.payments.Insert(context.Background(), pending)
	f.gw.event = &gateway.Event{Type: gateway.EventPaymentFailed, PaymentID: pending.ID.Hex()}
	_, err = f.svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.Equal(t, consts.PaymentFailed, pending.Status)

	f.gw.event = &gateway.Event{Type: "customer.created"}
	resp, err = f.svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)
	assert.True(t, resp.Received)

	f.gw.parseErr = errors.New("bad signature")
	_, err = f.svc.HandleWebhook(context.Background(), []byte("{}"), "sig")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
