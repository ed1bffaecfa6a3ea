package consts

// 数据库相关
const (
	ID           = "_id"
	UserID       = "user_id"
	StudentID    = "student_id"
	TeacherID    = "teacher_id"
	AnswerID     = "answer_id"
	SubmissionID = "submission_id"
	ProblemID    = "problem_id"
	Status       = "status"
	Role         = "role"
	IsRead       = "is_read"
	IsActive     = "is_active"
	CreateTime   = "create_time"
	UpdateTime   = "update_time"
	SubmitTime   = "submit_time"
	In           = "$in"
	Set          = "$set"
)

// 角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// 提交状态
const (
	SubmissionSubmitted = "submitted"
	SubmissionReviewing = "reviewing"
	SubmissionCompleted = "completed"
)

// 支付状态
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
	MethodStripe   = "stripe"
	MethodManual   = "manual"
)

// 通知类型
const (
	NotificationCorrectionCompleted = "correction_completed"
	NotificationNewProblem          = "new_problem"
	NotificationDueDateReminder     = "due_date_reminder"
)

// 批注类型
const (
	AnnotationHighlight = "highlight"
	AnnotationComment   = "comment"
	AnnotationUnderline = "underline"

	ColorHighlight = "#ffff00"
	ColorUnderline = "#ff0000"
	ColorComment   = "#00ff00"

	// MinAnnotationSize 小于等于该尺寸的框视为误触
	MinAnnotationSize = 5.0
)

// http
const (
	CharSetUTF8     = "UTF-8"
	Authorization   = "Authorization"
	StripeSignature = "Stripe-Signature"
)

// 默认值
const (
	DefaultNotificationLimit = 10
	MaxNotificationLimit     = 100
	MaxScore                 = 100
	MinScore                 = 0
	ReportCacheExpire        = 3600 // 1小时
	CorrectionLockExpire     = 30
)
