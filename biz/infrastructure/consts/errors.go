package consts

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Errno struct {
	err  error
	code codes.Code
}

// GRPCStatus 实现 GRPCStatus 方法
func (en *Errno) GRPCStatus() *status.Status {
	return status.New(en.code, en.err.Error())
}

// 实现 Error 方法
func (en *Errno) Error() string {
	return en.err.Error()
}

func (en *Errno) Code() codes.Code {
	return en.code
}

// NewErrno 创建自定义错误
func NewErrno(code codes.Code, err error) *Errno {
	return &Errno{
		err:  err,
		code: code,
	}
}

// WithMessage 保留错误码，替换错误信息
func (en *Errno) WithMessage(msg string) *Errno {
	return NewErrno(en.code, errors.New(msg))
}

// 认证与权限
var (
	ErrNotAuthentication = NewErrno(codes.Unauthenticated, errors.New("login required"))
	ErrForbidden         = NewErrno(codes.PermissionDenied, errors.New("forbidden"))
	ErrTeacherOnly       = NewErrno(codes.PermissionDenied, errors.New("only teachers can do this"))
	ErrStudentOnly       = NewErrno(codes.PermissionDenied, errors.New("only students can do this"))
	ErrAdminOnly         = NewErrno(codes.PermissionDenied, errors.New("only admins can do this"))
	ErrUnpaid            = NewErrno(codes.PermissionDenied, errors.New("payment for this answer is not completed"))
)

// 批改相关
var (
	ErrMissingFields        = NewErrno(codes.InvalidArgument, errors.New("all fields are required"))
	ErrScoreRange           = NewErrno(codes.InvalidArgument, errors.New("score must be between 0 and 100"))
	ErrAlreadyCompleted     = NewErrno(codes.AlreadyExists, errors.New("this answer has already been corrected"))
	ErrDuplicateCorrection  = NewErrno(codes.AlreadyExists, errors.New("a correction already exists for this answer"))
	ErrCorrectionInProgress = NewErrno(codes.AlreadyExists, errors.New("this answer is being corrected"))
	ErrSaveCorrection       = NewErrno(codes.Internal, errors.New("failed to save correction, please retry"))
	ErrGetCorrections       = NewErrno(codes.Internal, errors.New("failed to list corrections"))
	ErrCorrectionNotFound   = NewErrno(codes.NotFound, errors.New("correction not found"))
)

// 支付相关
var (
	ErrPaymentExists       = NewErrno(codes.AlreadyExists, errors.New("payment is already pending or completed for this answer"))
	ErrInvalidAmount       = NewErrno(codes.InvalidArgument, errors.New("amount must be positive"))
	ErrInvalidStatus       = NewErrno(codes.InvalidArgument, errors.New("invalid payment status"))
	ErrCreatePayment       = NewErrno(codes.Internal, errors.New("failed to create payment"))
	ErrUpdatePayment       = NewErrno(codes.Internal, errors.New("failed to update payment status"))
	ErrPaymentNotFound     = NewErrno(codes.NotFound, errors.New("payment not found"))
	ErrCreateSession       = NewErrno(codes.Internal, errors.New("failed to create checkout session"))
	ErrWebhookSignature    = NewErrno(codes.InvalidArgument, errors.New("invalid webhook signature"))
	ErrCheckPayment        = errors.New("error while checking payment status")
	ErrInvalidAnswerFormat = errors.New("invalid answer id format")
)

// 题目相关
var (
	ErrInvalidPrice   = NewErrno(codes.InvalidArgument, errors.New("price must be 0 or more"))
	ErrInvalidDueDate = NewErrno(codes.InvalidArgument, errors.New("invalid due date"))
	ErrCreateProblem  = NewErrno(codes.Internal, errors.New("failed to create problem"))
	ErrGetProblems    = NewErrno(codes.Internal, errors.New("failed to list problems"))
)

// 批注、通知、提交
var (
	ErrInvalidAnnotation   = NewErrno(codes.InvalidArgument, errors.New("invalid annotation"))
	ErrSaveAnnotations     = NewErrno(codes.Internal, errors.New("failed to save annotations"))
	ErrGetAnnotations      = NewErrno(codes.Internal, errors.New("failed to load annotations"))
	ErrInvalidNotification = NewErrno(codes.InvalidArgument, errors.New("invalid notification type"))
	ErrCreateNotification  = NewErrno(codes.Internal, errors.New("failed to create notification"))
	ErrGetNotifications    = NewErrno(codes.Internal, errors.New("failed to list notifications"))
	ErrNotificationMissing = NewErrno(codes.NotFound, errors.New("notification not found"))
	ErrSubmitAnswer        = NewErrno(codes.Internal, errors.New("failed to submit answer"))
	ErrRepeatedSubmission  = NewErrno(codes.AlreadyExists, errors.New("an answer was already submitted for this problem"))
	ErrDueDatePassed       = NewErrno(codes.InvalidArgument, errors.New("the due date has passed"))
	ErrEmptyAnswer         = NewErrno(codes.InvalidArgument, errors.New("write an answer or upload a pdf"))
	ErrGetSubmissions      = NewErrno(codes.Internal, errors.New("failed to list submissions"))
	ErrExport              = NewErrno(codes.Internal, errors.New("failed to export correction"))
)

// ErrInvalidParams 调用时错误
var (
	ErrInvalidParams = NewErrno(codes.InvalidArgument, errors.New("invalid parameters"))
	ErrCall          = NewErrno(codes.Internal, errors.New("server error, please retry"))
)

// 数据库相关错误
var (
	ErrNotFound        = NewErrno(codes.NotFound, errors.New("not found"))
	ErrInvalidObjectId = NewErrno(codes.InvalidArgument, errors.New("invalid id format"))
	ErrUpdate          = NewErrno(codes.Internal, errors.New("update failed"))
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrPaymentSettled  = errors.New("payment already paid")
)
