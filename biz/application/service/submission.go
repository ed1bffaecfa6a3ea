package service

import (
	"context"
	"errors"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/repository/user"
	"essay-review/biz/infrastructure/util/log"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/samber/lo"
)

type ISubmissionService interface {
	SubmitAnswer(ctx context.Context, req *show.SubmitAnswerReq) (*show.SubmitAnswerResp, error)
	ListSubmissions(ctx context.Context) (*show.ListSubmissionsResp, error)
}

type SubmissionService struct {
	SubmissionMapper submission.IMongoMapper
	ProblemMapper    problem.IMongoMapper
	UserMapper       user.IMongoMapper
}

var SubmissionServiceSet = wire.NewSet(
	wire.Struct(new(SubmissionService), "*"),
	wire.Bind(new(ISubmissionService), new(*SubmissionService)),
)

// SubmitAnswer 学生提交答案，每道题只能提交一次
func (s *SubmissionService) SubmitAnswer(ctx context.Context, req *show.SubmitAnswerReq) (*show.SubmitAnswerResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleStudent {
		return nil, consts.ErrStudentOnly
	}
	if req.ProblemId == "" {
		return nil, consts.ErrMissingFields
	}
	if strings.TrimSpace(req.Content) == "" && req.PdfUrl == "" {
		return nil, consts.ErrEmptyAnswer
	}

	p, err := s.ProblemMapper.FindOne(ctx, req.ProblemId)
	switch {
	case err == nil:
	case errors.Is(err, consts.ErrNotFound), errors.Is(err, consts.ErrInvalidObjectId):
		return nil, err
	default:
		log.CtxError(ctx, "题目查询失败: %v", err)
		return nil, consts.ErrCall
	}
	if !p.IsActive {
		return nil, consts.ErrNotFound
	}
	if !p.DueDate.IsZero() && time.Now().After(p.DueDate) {
		return nil, consts.ErrDueDatePassed
	}

	_, err = s.SubmissionMapper.FindByStudentAndProblem(ctx, userMeta.GetUserId(), req.ProblemId)
	switch {
	case err == nil:
		return nil, consts.ErrRepeatedSubmission
	case errors.Is(err, consts.ErrNotFound):
	default:
		log.CtxError(ctx, "查询已有提交失败: %v", err)
		return nil, consts.ErrCall
	}

	sub := &submission.Submission{
		ProblemID: req.ProblemId,
		StudentID: userMeta.GetUserId(),
		Content:   req.Content,
		PdfURL:    req.PdfUrl,
		Status:    consts.SubmissionSubmitted,
	}
	if err = s.SubmissionMapper.Insert(ctx, sub); err != nil {
		log.CtxError(ctx, "提交答案失败: %v", err)
		return nil, consts.ErrSubmitAnswer
	}

	log.CtxInfo(ctx, "答案提交成功 [SubmissionID: %s, StudentID: %s, ProblemID: %s]",
		sub.ID.Hex(), sub.StudentID, sub.ProblemID)
	return &show.SubmitAnswerResp{Id: sub.ID.Hex(), Status: sub.Status}, nil
}

// ListSubmissions 学生看自己的，教师看自己题目下的，管理员看全部
func (s *SubmissionService) ListSubmissions(ctx context.Context) (*show.ListSubmissionsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	var (
		submissions []*submission.Submission
		err         error
	)
	switch userMeta.GetRole() {
	case consts.RoleStudent:
		submissions, err = s.SubmissionMapper.FindByStudent(ctx, userMeta.GetUserId())
	case consts.RoleTeacher:
		var problems []*problem.Problem
		problems, err = s.ProblemMapper.FindByTeacher(ctx, userMeta.GetUserId())
		if err == nil {
			submissions, err = s.SubmissionMapper.FindByProblems(ctx, lo.Map(problems, func(p *problem.Problem, _ int) string {
				return p.ID.Hex()
			}))
		}
	case consts.RoleAdmin:
		submissions, err = s.SubmissionMapper.FindAll(ctx)
	default:
		return nil, consts.ErrForbidden
	}
	if err != nil {
		log.CtxError(ctx, "获取提交列表失败: %v", err)
		return nil, consts.ErrGetSubmissions
	}

	problems, err := s.ProblemMapper.FindMany(ctx, lo.Map(submissions, func(sub *submission.Submission, _ int) string {
		return sub.ProblemID
	}))
	if err != nil {
		log.CtxError(ctx, "获取题目失败: %v", err)
		return nil, consts.ErrGetSubmissions
	}
	students, err := s.UserMapper.FindMany(ctx, lo.Map(submissions, func(sub *submission.Submission, _ int) string {
		return sub.StudentID
	}))
	if err != nil {
		log.CtxError(ctx, "获取学生失败: %v", err)
		return nil, consts.ErrGetSubmissions
	}

	result := lo.Map(submissions, func(sub *submission.Submission, _ int) *show.Submission {
		return &show.Submission{
			SubmissionBrief: *toSubmissionBrief(sub),
			Score:           sub.Score,
			Feedback:        sub.Feedback,
			ReviewedBy:      sub.ReviewedBy,
			Problem:         toProblemBrief(problems[sub.ProblemID]),
			Student:         toUserBrief(students[sub.StudentID]),
		}
	})
	return &show.ListSubmissionsResp{Submissions: result, Total: int64(len(result))}, nil
}
