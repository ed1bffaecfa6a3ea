package service

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/util/log"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/samber/lo"
	"github.com/spf13/cast"
)

type IProblemService interface {
	CreateProblem(ctx context.Context, req *show.CreateProblemReq) (*show.Problem, error)
	ListProblems(ctx context.Context) (*show.ListProblemsResp, error)
}

type ProblemService struct {
	ProblemMapper       problem.IMongoMapper
	SubmissionMapper    submission.IMongoMapper
	NotificationService INotificationService
}

var ProblemServiceSet = wire.NewSet(
	wire.Struct(new(ProblemService), "*"),
	wire.Bind(new(IProblemService), new(*ProblemService)),
)

// CreateProblem 教师出题，发布后通知所有学生
func (s *ProblemService) CreateProblem(ctx context.Context, req *show.CreateProblemReq) (*show.Problem, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleTeacher {
		return nil, consts.ErrTeacherOnly
	}
	title, description := strings.TrimSpace(req.Title), strings.TrimSpace(req.Description)
	if title == "" || description == "" || req.DueDate == "" || req.Price == nil {
		return nil, consts.ErrMissingFields
	}
	if *req.Price < 0 {
		return nil, consts.ErrInvalidPrice
	}
	dueDate, err := cast.ToTimeE(req.DueDate)
	if err != nil {
		return nil, consts.ErrInvalidDueDate
	}

	p := &problem.Problem{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		PdfURL:      req.PdfUrl,
		Price:       *req.Price,
		TeacherID:   userMeta.GetUserId(),
		IsActive:    true,
	}
	if err = s.ProblemMapper.Insert(ctx, p); err != nil {
		log.CtxError(ctx, "创建题目失败: %v", err)
		return nil, consts.ErrCreateProblem
	}
	log.CtxInfo(ctx, "题目创建成功 [ProblemID: %s, TeacherID: %s]", p.ID.Hex(), p.TeacherID)

	s.NotificationService.NotifyNewProblem(ctx, &NewProblemEvent{
		ProblemID:   p.ID.Hex(),
		Title:       p.Title,
		TeacherName: userMeta.GetName(),
		DueDate:     p.DueDate,
	})
	return toProblemDTO(p), nil
}

// ListProblems 教师看自己发布的，其他角色看全部在线题目，学生额外带上提交状态
func (s *ProblemService) ListProblems(ctx context.Context) (*show.ListProblemsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	var (
		problems []*problem.Problem
		err      error
	)
	if userMeta.GetRole() == consts.RoleTeacher {
		problems, err = s.ProblemMapper.FindByTeacher(ctx, userMeta.GetUserId())
		problems = lo.Filter(problems, func(p *problem.Problem, _ int) bool { return p.IsActive })
	} else {
		problems, err = s.ProblemMapper.FindActive(ctx)
	}
	if err != nil {
		log.CtxError(ctx, "获取题目列表失败: %v", err)
		return nil, consts.ErrGetProblems
	}

	result := lo.Map(problems, func(p *problem.Problem, _ int) *show.Problem { return toProblemDTO(p) })
	if userMeta.GetRole() == consts.RoleStudent {
		subs, err := s.SubmissionMapper.FindByStudent(ctx, userMeta.GetUserId())
		if err != nil {
			log.CtxError(ctx, "获取学生提交失败: %v", err)
			return nil, consts.ErrGetProblems
		}
		submitted := lo.SliceToMap(subs, func(sub *submission.Submission) (string, bool) { return sub.ProblemID, true })
		now := time.Now()
		for _, p := range result {
			p.IsSubmitted = lo.ToPtr(submitted[p.Id])
			p.CanSubmit = lo.ToPtr(!now.After(p.DueDate))
		}
	}
	return &show.ListProblemsResp{Problems: result, Total: int64(len(result))}, nil
}

func toProblemDTO(p *problem.Problem) *show.Problem {
	return &show.Problem{
		Id:          p.ID.Hex(),
		Title:       p.Title,
		Description: p.Description,
		DueDate:     p.DueDate,
		PdfUrl:      p.PdfURL,
		Price:       p.Price,
		TeacherId:   p.TeacherID,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreateTime,
	}
}
