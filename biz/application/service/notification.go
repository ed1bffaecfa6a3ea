package service

import (
	"context"
	"errors"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/mail"
	"essay-review/biz/infrastructure/repository/notification"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/user"
	"essay-review/biz/infrastructure/util/log"
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

type INotificationService interface {
	CreateNotification(ctx context.Context, req *show.CreateNotificationReq) (*show.Notification, error)
	ListNotifications(ctx context.Context, req *show.ListNotificationsReq) (*show.ListNotificationsResp, error)
	MarkRead(ctx context.Context, req *show.MarkReadReq) error
	NotifyCorrectionCompleted(ctx context.Context, e *CorrectionCompletedEvent)
	NotifyNewProblem(ctx context.Context, e *NewProblemEvent)
}

type NotificationService struct {
	NotificationMapper notification.IMongoMapper
	UserMapper         user.IMongoMapper
	ProblemMapper      problem.IMongoMapper
	Mailer             mail.IDispatcher
}

var NotificationServiceSet = wire.NewSet(
	wire.Struct(new(NotificationService), "*"),
	wire.Bind(new(INotificationService), new(*NotificationService)),
)

// CorrectionCompletedEvent 批改完成后通知学生所需的信息
type CorrectionCompletedEvent struct {
	StudentID    string
	TeacherName  string
	SubmissionID string
	ProblemID    string
	CorrectionID string
	Score        int64
	Feedback     string
}

// NewProblemEvent 新题目发布后通知全部学生
type NewProblemEvent struct {
	ProblemID   string
	Title       string
	TeacherName string
	DueDate     time.Time
}

// CreateNotification 教师和管理员可以给任意用户发通知
func (s *NotificationService) CreateNotification(ctx context.Context, req *show.CreateNotificationReq) (*show.Notification, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleTeacher && userMeta.GetRole() != consts.RoleAdmin {
		return nil, consts.ErrForbidden
	}
	if req.UserId == "" || req.Type == "" || req.Title == "" || req.Message == "" {
		return nil, consts.ErrMissingFields
	}

	var data *notification.Data
	if req.Data != nil {
		data = &notification.Data{
			SubmissionID: req.Data.SubmissionId,
			ProblemID:    req.Data.ProblemId,
			CorrectionID: req.Data.CorrectionId,
		}
	}
	n, err := s.create(ctx, req.UserId, req.Type, req.Title, req.Message, data)
	if err != nil {
		return nil, err
	}
	return toNotificationDTO(n), nil
}

func (s *NotificationService) create(ctx context.Context, userID, typ, title, message string, data *notification.Data) (*notification.Notification, error) {
	if !validNotificationType(typ) {
		return nil, consts.ErrInvalidNotification
	}
	n := &notification.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
		IsRead:  false,
	}
	if err := s.NotificationMapper.Insert(ctx, n); err != nil {
		log.CtxError(ctx, "创建通知失败: %v", err)
		return nil, consts.ErrCreateNotification
	}
	return n, nil
}

// ListNotifications 当前用户的通知，按时间倒序
func (s *NotificationService) ListNotifications(ctx context.Context, req *show.ListNotificationsReq) (*show.ListNotificationsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	var isRead *bool
	if req.IsRead != "" {
		b, err := cast.ToBoolE(req.IsRead)
		if err != nil {
			return nil, consts.ErrInvalidParams
		}
		isRead = &b
	}

	limit := int64(consts.DefaultNotificationLimit)
	if req.Limit != "" {
		l, err := cast.ToInt64E(req.Limit)
		if err != nil || l <= 0 {
			return nil, consts.ErrInvalidParams
		}
		limit = min(l, consts.MaxNotificationLimit)
	}

	notifications, err := s.NotificationMapper.FindByUser(ctx, userMeta.GetUserId(), isRead, limit)
	if err != nil {
		log.CtxError(ctx, "获取通知失败: %v", err)
		return nil, consts.ErrGetNotifications
	}
	return &show.ListNotificationsResp{
		Notifications: lo.Map(notifications, func(n *notification.Notification, _ int) *show.Notification {
			return toNotificationDTO(n)
		}),
		Total: int64(len(notifications)),
	}, nil
}

// MarkRead 只能标记自己的通知，否则与不存在同样返回 NotFound
func (s *NotificationService) MarkRead(ctx context.Context, req *show.MarkReadReq) error {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return consts.ErrNotAuthentication
	}
	if req.NotificationId == "" {
		return consts.ErrMissingFields
	}

	err := s.NotificationMapper.MarkRead(ctx, req.NotificationId, userMeta.GetUserId())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, consts.ErrNotFound):
		return consts.ErrNotificationMissing
	default:
		log.CtxError(ctx, "标记通知已读失败: %v", err)
		return consts.ErrUpdate
	}
}

// NotifyCorrectionCompleted 写入站内通知并异步发邮件，失败只记日志
func (s *NotificationService) NotifyCorrectionCompleted(ctx context.Context, e *CorrectionCompletedEvent) {
	var title string
	p, err := s.ProblemMapper.FindOne(ctx, e.ProblemID)
	if err != nil {
		log.CtxError(ctx, "获取题目失败: problemId=%s, err=%v", e.ProblemID, err)
		title = "Your answer"
	} else {
		title = p.Title
	}

	_, err = s.create(ctx, e.StudentID, consts.NotificationCorrectionCompleted,
		"Correction completed",
		fmt.Sprintf("%s has been corrected. Score: %d", title, e.Score),
		&notification.Data{
			SubmissionID: e.SubmissionID,
			ProblemID:    e.ProblemID,
			CorrectionID: e.CorrectionID,
		})
	if err != nil {
		log.CtxError(ctx, "批改完成通知写入失败: submissionId=%s, err=%v", e.SubmissionID, err)
	}

	student, err := s.UserMapper.FindOne(ctx, e.StudentID)
	if err != nil || student.Email == "" {
		log.CtxError(ctx, "无法获取学生邮箱，跳过邮件: studentId=%s, err=%v", e.StudentID, err)
		return
	}
	html, err := mail.RenderCorrectionCompleted(&mail.CorrectionCompleted{
		StudentName:  student.Name,
		ProblemTitle: title,
		TeacherName:  e.TeacherName,
		Score:        e.Score,
		Feedback:     e.Feedback,
		Link:         fmt.Sprintf("%s/student/answers/%s", frontendURL(), e.SubmissionID),
	})
	if err != nil {
		log.CtxError(ctx, "渲染邮件失败: %v", err)
		return
	}
	s.Mailer.Dispatch(ctx, &mail.Message{
		To:      student.Email,
		Subject: "Your essay has been corrected",
		HTML:    html,
	})
}

// NotifyNewProblem 给每个学生写站内通知并发邮件，单个学生失败不影响其他人
func (s *NotificationService) NotifyNewProblem(ctx context.Context, e *NewProblemEvent) {
	students, err := s.UserMapper.FindByRole(ctx, consts.RoleStudent)
	if err != nil {
		log.CtxError(ctx, "获取学生列表失败，跳过新题通知: problemId=%s, err=%v", e.ProblemID, err)
		return
	}
	dueDate := e.DueDate.Format(time.DateOnly)
	link := fmt.Sprintf("%s/student/submit", frontendURL())
	for _, st := range students {
		_, err = s.create(ctx, st.ID.Hex(), consts.NotificationNewProblem,
			"New essay problem",
			fmt.Sprintf("%s is open until %s", e.Title, dueDate),
			&notification.Data{ProblemID: e.ProblemID})
		if err != nil {
			log.CtxError(ctx, "新题通知写入失败: studentId=%s, err=%v", st.ID.Hex(), err)
		}
		if st.Email == "" {
			continue
		}
		html, err := mail.RenderNewProblem(&mail.NewProblem{
			StudentName:  st.Name,
			ProblemTitle: e.Title,
			TeacherName:  e.TeacherName,
			DueDate:      dueDate,
			Link:         link,
		})
		if err != nil {
			log.CtxError(ctx, "渲染邮件失败: %v", err)
			return
		}
		s.Mailer.Dispatch(ctx, &mail.Message{
			To:      st.Email,
			Subject: "A new essay problem has been posted",
			HTML:    html,
		})
	}
	log.CtxInfo(ctx, "新题通知已发送: problemId=%s, students=%d", e.ProblemID, len(students))
}

func frontendURL() string {
	if c := config.GetConfig(); c != nil {
		return c.Api.FrontendURL
	}
	return ""
}

func validNotificationType(typ string) bool {
	switch typ {
	case consts.NotificationCorrectionCompleted, consts.NotificationNewProblem, consts.NotificationDueDateReminder:
		return true
	}
	return false
}

func toNotificationDTO(n *notification.Notification) *show.Notification {
	dto := &show.Notification{
		Id:        n.ID.Hex(),
		UserId:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreateTime,
	}
	if n.Data != nil {
		dto.Data = &show.NotificationData{
			SubmissionId: n.Data.SubmissionID,
			ProblemId:    n.Data.ProblemID,
			CorrectionId: n.Data.CorrectionID,
		}
	}
	return dto
}
