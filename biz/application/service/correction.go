package service

import (
	"context"
	"errors"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/cache"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/lock"
	"essay-review/biz/infrastructure/repository/annotation"
	"essay-review/biz/infrastructure/repository/correction"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/repository/user"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/google/wire"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("essay-review/correction")

type ICorrectionService interface {
	CreateCorrection(ctx context.Context, req *show.CreateCorrectionReq) (*show.CreateCorrectionResp, error)
	ListCorrections(ctx context.Context) (*show.ListCorrectionsResp, error)
	ListStudentCorrections(ctx context.Context, req *show.ListStudentCorrectionsReq) (*show.ListStudentCorrectionsResp, error)
	ExportCorrection(ctx context.Context, req *show.ExportCorrectionReq) (*show.CorrectionReport, error)
}

type CorrectionService struct {
	CorrectionMapper    correction.IMongoMapper
	RecordMapper        correction.IRecordMapper
	SubmissionMapper    submission.IMongoMapper
	ProblemMapper       problem.IMongoMapper
	UserMapper          user.IMongoMapper
	AnnotationMapper    annotation.IMongoMapper
	ReportCache         cache.IReportCacheMapper
	Locker              lock.ILocker
	PaymentService      IPaymentService
	NotificationService INotificationService
}

var CorrectionServiceSet = wire.NewSet(
	wire.Struct(new(CorrectionService), "*"),
	wire.Bind(new(ICorrectionService), new(*CorrectionService)),
)

// CreateCorrection 校验与查重全部完成后才写入；副记录写入失败回滚主记录，提交更新失败回滚两条记录
func (s *CorrectionService) CreateCorrection(ctx context.Context, req *show.CreateCorrectionReq) (resp *show.CreateCorrectionResp, err error) {
	ctx, span := tracer.Start(ctx, "CorrectionService.CreateCorrection",
		trace.WithAttributes(attribute.String("submission.id", req.SubmissionId)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
		}
		span.End()
	}()

	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleTeacher {
		return nil, consts.ErrTeacherOnly
	}
	if req.SubmissionId == "" || req.Content == "" || req.Feedback == "" || req.Score == nil {
		return nil, consts.ErrMissingFields
	}
	if *req.Score < consts.MinScore || *req.Score > consts.MaxScore {
		return nil, consts.ErrScoreRange
	}

	now := time.Now()
	annotations, err := buildAnnotations(req.Annotations, userMeta.GetUserId(), now)
	if err != nil {
		return nil, err
	}

	sub, err := s.SubmissionMapper.FindOne(ctx, req.SubmissionId)
	if err != nil {
		return nil, submissionLookupErr(ctx, err)
	}

	// 支付门禁
	paid, err := s.PaymentService.CheckPaymentStatus(ctx, &show.CheckPaymentStatusReq{AnswerId: req.SubmissionId})
	if err != nil {
		return nil, err
	}
	if !paid.IsPaid {
		return nil, consts.ErrUnpaid.WithMessage(paid.Error)
	}

	if sub.Status == consts.SubmissionCompleted {
		return nil, consts.ErrAlreadyCompleted
	}

	unlock, err := s.Locker.Lock(ctx, req.SubmissionId)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, consts.ErrCorrectionInProgress
		}
		log.CtxError(ctx, "获取批改锁失败: submissionId=%s, err=%v", req.SubmissionId, err)
		return nil, consts.ErrCall
	}
	defer unlock()

	// 以副记录为准查重
	_, err = s.RecordMapper.FindByStudentAndAnswer(ctx, sub.StudentID, req.SubmissionId)
	switch {
	case err == nil:
		return nil, consts.ErrDuplicateCorrection
	case errors.Is(err, consts.ErrNotFound):
	default:
		log.CtxError(ctx, "查询批改记录失败: %v", err)
		return nil, consts.ErrCall
	}

	c, record, err := s.dualWrite(ctx, sub, userMeta.GetUserId(), req, annotations, now)
	if err != nil {
		return nil, err
	}

	err = s.SubmissionMapper.Complete(ctx, req.SubmissionId, &submission.Review{
		Score:      *req.Score,
		Feedback:   req.Feedback,
		ReviewedBy: userMeta.GetUserId(),
		ReviewedAt: now,
	})
	if err != nil {
		log.CtxError(ctx, "更新提交状态失败，回滚批改: submissionId=%s, err=%v", req.SubmissionId, err)
		s.rollbackRecord(ctx, record.ID)
		s.rollbackCorrection(ctx, c.ID.Hex())
		return nil, consts.ErrSaveCorrection
	}

	s.NotificationService.NotifyCorrectionCompleted(ctx, &CorrectionCompletedEvent{
		StudentID:    sub.StudentID,
		TeacherName:  userMeta.GetName(),
		SubmissionID: req.SubmissionId,
		ProblemID:    sub.ProblemID,
		CorrectionID: c.ID.Hex(),
		Score:        c.Score,
		Feedback:     c.Feedback,
	})

	return &show.CreateCorrectionResp{
		Id:           c.ID.Hex(),
		RecordId:     record.ID,
		SubmissionId: c.SubmissionID,
		Content:      c.Content,
		Score:        c.Score,
		Feedback:     c.Feedback,
	}, nil
}

// dualWrite 先写主记录再写副记录，副记录失败时删除主记录
func (s *CorrectionService) dualWrite(ctx context.Context, sub *submission.Submission, teacherID string,
	req *show.CreateCorrectionReq, annotations []*annotation.Annotation, now time.Time) (*correction.Correction, *correction.Record, error) {
	ctx, span := tracer.Start(ctx, "CorrectionService.dualWrite")
	defer span.End()

	c := &correction.Correction{
		SubmissionID: req.SubmissionId,
		TeacherID:    teacherID,
		Content:      req.Content,
		Score:        *req.Score,
		Feedback:     req.Feedback,
		Annotations:  annotations,
	}
	if err := s.CorrectionMapper.Insert(ctx, c); err != nil {
		log.CtxError(ctx, "写入批改主记录失败: %v", err)
		span.RecordError(err)
		return nil, nil, consts.ErrSaveCorrection
	}

	record := &correction.Record{
		StudentID:  sub.StudentID,
		TeacherID:  teacherID,
		AnswerID:   req.SubmissionId,
		Feedback:   req.Feedback,
		CreateTime: now,
	}
	if err := s.RecordMapper.Insert(ctx, record); err != nil {
		span.RecordError(err)
		log.CtxError(ctx, "写入批改副记录失败，回滚主记录: correctionId=%s, err=%v", c.ID.Hex(), err)
		s.rollbackCorrection(ctx, c.ID.Hex())
		if errors.Is(err, consts.ErrDuplicateKey) {
			return nil, nil, consts.ErrDuplicateCorrection
		}
		return nil, nil, consts.ErrSaveCorrection
	}
	span.SetAttributes(attribute.String("correction.id", c.ID.Hex()), attribute.Int64("record.id", record.ID))
	return c, record, nil
}

// 回滚不受请求取消影响
func (s *CorrectionService) rollbackCorrection(ctx context.Context, id string) {
	if err := s.CorrectionMapper.Delete(context.WithoutCancel(ctx), id); err != nil {
		log.CtxError(ctx, "回滚批改主记录失败: correctionId=%s, err=%v", id, err)
	}
}

func (s *CorrectionService) rollbackRecord(ctx context.Context, id int64) {
	if err := s.RecordMapper.Delete(context.WithoutCancel(ctx), id); err != nil {
		log.CtxError(ctx, "回滚批改副记录失败: recordId=%d, err=%v", id, err)
	}
}

// ListCorrections 教师看自己的批改，管理员看全部，学生通过副记录看自己的
func (s *CorrectionService) ListCorrections(ctx context.Context) (*show.ListCorrectionsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	var (
		corrections []*correction.Correction
		err         error
	)
	switch userMeta.GetRole() {
	case consts.RoleTeacher:
		corrections, err = s.CorrectionMapper.FindByTeacher(ctx, userMeta.GetUserId())
	case consts.RoleAdmin:
		corrections, err = s.CorrectionMapper.FindAll(ctx)
	case consts.RoleStudent:
		corrections, err = s.findStudentCorrections(ctx, userMeta.GetUserId())
	default:
		return nil, consts.ErrForbidden
	}
	if err != nil {
		log.CtxError(ctx, "获取批改列表失败: %v", err)
		return nil, consts.ErrGetCorrections
	}

	result, err := s.joinCorrections(ctx, corrections)
	if err != nil {
		log.CtxError(ctx, "组装批改列表失败: %v", err)
		return nil, consts.ErrGetCorrections
	}
	return &show.ListCorrectionsResp{Corrections: result, Total: int64(len(result))}, nil
}

func (s *CorrectionService) findStudentCorrections(ctx context.Context, studentID string) ([]*correction.Correction, error) {
	records, err := s.RecordMapper.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	answerIDs := lo.Map(records, func(r *correction.Record, _ int) string { return r.AnswerID })
	bySubmission, err := s.CorrectionMapper.FindBySubmissions(ctx, answerIDs)
	if err != nil {
		return nil, err
	}
	// 保持副记录的时间顺序
	return lo.FilterMap(records, func(r *correction.Record, _ int) (*correction.Correction, bool) {
		c, ok := bySubmission[r.AnswerID]
		return c, ok
	}), nil
}

// joinCorrections 关联 提交 → 题目 → 学生/教师
func (s *CorrectionService) joinCorrections(ctx context.Context, corrections []*correction.Correction) ([]*show.Correction, error) {
	if len(corrections) == 0 {
		return []*show.Correction{}, nil
	}
	submissions, err := s.SubmissionMapper.FindMany(ctx, lo.Map(corrections, func(c *correction.Correction, _ int) string {
		return c.SubmissionID
	}))
	if err != nil {
		return nil, err
	}
	subs := lo.Values(submissions)
	problems, err := s.ProblemMapper.FindMany(ctx, lo.Map(subs, func(sub *submission.Submission, _ int) string {
		return sub.ProblemID
	}))
	if err != nil {
		return nil, err
	}
	userIDs := append(
		lo.Map(subs, func(sub *submission.Submission, _ int) string { return sub.StudentID }),
		lo.Map(corrections, func(c *correction.Correction, _ int) string { return c.TeacherID })...,
	)
	users, err := s.UserMapper.FindMany(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	return lo.Map(corrections, func(c *correction.Correction, _ int) *show.Correction {
		dto := toCorrectionDTO(c)
		dto.Teacher = toUserBrief(users[c.TeacherID])
		if sub, ok := submissions[c.SubmissionID]; ok {
			dto.Submission = toSubmissionBrief(sub)
			dto.Problem = toProblemBrief(problems[sub.ProblemID])
			dto.Student = toUserBrief(users[sub.StudentID])
		}
		return dto
	}), nil
}

// ListStudentCorrections 按学生查询副记录，学生只能查自己
func (s *CorrectionService) ListStudentCorrections(ctx context.Context, req *show.ListStudentCorrectionsReq) (*show.ListStudentCorrectionsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if req.StudentId == "" {
		return nil, consts.ErrMissingFields
	}
	switch userMeta.GetRole() {
	case consts.RoleTeacher, consts.RoleAdmin:
	case consts.RoleStudent:
		if req.StudentId != userMeta.GetUserId() {
			return nil, consts.ErrForbidden
		}
	default:
		return nil, consts.ErrForbidden
	}

	records, err := s.RecordMapper.FindByStudent(ctx, req.StudentId)
	if err != nil {
		log.CtxError(ctx, "获取学生批改记录失败: %v", err)
		return nil, consts.ErrGetCorrections
	}
	teachers, err := s.UserMapper.FindMany(ctx, lo.Map(records, func(r *correction.Record, _ int) string { return r.TeacherID }))
	if err != nil {
		log.CtxError(ctx, "获取教师信息失败: %v", err)
		teachers = map[string]*user.User{}
	}

	result := lo.Map(records, func(r *correction.Record, _ int) *show.StudentCorrection {
		return &show.StudentCorrection{
			Id:        r.ID,
			StudentId: r.StudentID,
			AnswerId:  r.AnswerID,
			TeacherId: r.TeacherID,
			Feedback:  r.Feedback,
			CreatedAt: r.CreateTime,
			Teacher:   toUserBrief(teachers[r.TeacherID]),
		}
	})
	return &show.ListStudentCorrectionsResp{Corrections: result, Total: int64(len(result))}, nil
}

// ExportCorrection 生成批改报告，缓存一小时，批注变更时失效
func (s *CorrectionService) ExportCorrection(ctx context.Context, req *show.ExportCorrectionReq) (*show.CorrectionReport, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if req.SubmissionId == "" {
		return nil, consts.ErrMissingFields
	}

	sub, err := s.SubmissionMapper.FindOne(ctx, req.SubmissionId)
	if err != nil {
		return nil, submissionLookupErr(ctx, err)
	}
	switch userMeta.GetRole() {
	case consts.RoleTeacher, consts.RoleAdmin:
	case consts.RoleStudent:
		if sub.StudentID != userMeta.GetUserId() {
			return nil, consts.ErrForbidden
		}
	default:
		return nil, consts.ErrForbidden
	}

	if report, err := s.ReportCache.Get(ctx, req.SubmissionId); err == nil {
		return report, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.CtxError(ctx, "读取导出缓存失败: %v", err)
	}

	c, err := s.CorrectionMapper.FindBySubmission(ctx, req.SubmissionId)
	switch {
	case err == nil:
	case errors.Is(err, consts.ErrNotFound):
		return nil, consts.ErrCorrectionNotFound
	default:
		log.CtxError(ctx, "获取批改失败: %v", err)
		return nil, consts.ErrExport
	}

	report := &show.CorrectionReport{
		Submission:  toSubmissionBrief(sub),
		Correction:  toCorrectionDTO(c),
		Annotations: []*show.Annotation{},
		GeneratedAt: time.Now(),
	}
	layer, err := s.AnnotationMapper.FindBySubmission(ctx, req.SubmissionId)
	switch {
	case err == nil:
		report.Annotations = toAnnotationDTOs(layer.Annotations)
	case errors.Is(err, consts.ErrNotFound):
	default:
		log.CtxError(ctx, "获取批注失败: %v", err)
		return nil, consts.ErrExport
	}
	if p, err := s.ProblemMapper.FindOne(ctx, sub.ProblemID); err == nil {
		report.Problem = toProblemBrief(p)
	} else {
		log.CtxError(ctx, "获取题目失败: problemId=%s, err=%v", sub.ProblemID, err)
	}
	if u, err := s.UserMapper.FindOne(ctx, sub.StudentID); err == nil {
		report.Student = toUserBrief(u)
	} else {
		log.CtxError(ctx, "获取学生失败: studentId=%s, err=%v", sub.StudentID, err)
	}

	if err = s.ReportCache.Set(ctx, req.SubmissionId, report); err != nil {
		log.CtxError(ctx, "写入导出缓存失败: %v", err)
	}
	return report, nil
}

func toCorrectionDTO(c *correction.Correction) *show.Correction {
	return &show.Correction{
		Id:           c.ID.Hex(),
		SubmissionId: c.SubmissionID,
		TeacherId:    c.TeacherID,
		Content:      c.Content,
		Score:        c.Score,
		Feedback:     c.Feedback,
		CreatedAt:    c.CreateTime,
	}
}

func toSubmissionBrief(sub *submission.Submission) *show.SubmissionBrief {
	if sub == nil {
		return nil
	}
	return &show.SubmissionBrief{
		Id:          sub.ID.Hex(),
		ProblemId:   sub.ProblemID,
		StudentId:   sub.StudentID,
		Content:     sub.Content,
		PdfUrl:      sub.PdfURL,
		Status:      sub.Status,
		SubmittedAt: sub.SubmitTime,
	}
}

func toProblemBrief(p *problem.Problem) *show.ProblemBrief {
	if p == nil {
		return nil
	}
	return &show.ProblemBrief{
		Id:      p.ID.Hex(),
		Title:   p.Title,
		DueDate: p.DueDate,
		Price:   p.Price,
	}
}

func toUserBrief(u *user.User) *show.UserBrief {
	if u == nil {
		return nil
	}
	return &show.UserBrief{
		Id:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
}
