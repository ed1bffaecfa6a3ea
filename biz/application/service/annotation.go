package service

import (
	"context"
	"errors"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/cache"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/repository/annotation"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/google/uuid"
	"github.com/google/wire"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

type IAnnotationService interface {
	SaveAnnotations(ctx context.Context, req *show.SaveAnnotationsReq) (*show.AnnotationsResp, error)
	LoadAnnotations(ctx context.Context, req *show.LoadAnnotationsReq) (*show.AnnotationsResp, error)
}

type AnnotationService struct {
	AnnotationMapper annotation.IMongoMapper
	SubmissionMapper submission.IMongoMapper
	ReportCache      cache.IReportCacheMapper
}

var AnnotationServiceSet = wire.NewSet(
	wire.Struct(new(AnnotationService), "*"),
	wire.Bind(new(IAnnotationService), new(*AnnotationService)),
)

// SaveAnnotations 整体替换提交的批注层
func (s *AnnotationService) SaveAnnotations(ctx context.Context, req *show.SaveAnnotationsReq) (*show.AnnotationsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if userMeta.GetRole() != consts.RoleTeacher {
		return nil, consts.ErrTeacherOnly
	}
	// 缺省 annotations 视为参数缺失，显式的 [] 才会清空批注层
	if req.SubmissionId == "" || req.Annotations == nil {
		return nil, consts.ErrMissingFields
	}

	if _, err := s.SubmissionMapper.FindOne(ctx, req.SubmissionId); err != nil {
		return nil, submissionLookupErr(ctx, err)
	}

	annotations, err := buildAnnotations(req.Annotations, userMeta.GetUserId(), time.Now())
	if err != nil {
		return nil, err
	}

	layer, err := s.AnnotationMapper.Upsert(ctx, req.SubmissionId, annotations)
	if err != nil {
		log.CtxError(ctx, "保存批注失败: submissionId=%s, err=%v", req.SubmissionId, err)
		return nil, consts.ErrSaveAnnotations
	}

	if err = s.ReportCache.Delete(ctx, req.SubmissionId); err != nil {
		log.CtxError(ctx, "清除导出缓存失败: submissionId=%s, err=%v", req.SubmissionId, err)
	}

	return toAnnotationsResp(req.SubmissionId, layer), nil
}

// LoadAnnotations 批注层不存在时返回空列表
func (s *AnnotationService) LoadAnnotations(ctx context.Context, req *show.LoadAnnotationsReq) (*show.AnnotationsResp, error) {
	userMeta := adaptor.ExtractUserMeta(ctx)
	if userMeta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}
	if req.SubmissionId == "" {
		return nil, consts.ErrMissingFields
	}

	if userMeta.GetRole() == consts.RoleStudent {
		sub, err := s.SubmissionMapper.FindOne(ctx, req.SubmissionId)
		if err != nil {
			return nil, submissionLookupErr(ctx, err)
		}
		if sub.StudentID != userMeta.GetUserId() {
			return nil, consts.ErrForbidden
		}
	}

	layer, err := s.AnnotationMapper.FindBySubmission(ctx, req.SubmissionId)
	switch {
	case err == nil:
		return toAnnotationsResp(req.SubmissionId, layer), nil
	case errors.Is(err, consts.ErrNotFound):
		return &show.AnnotationsResp{SubmissionId: req.SubmissionId, Annotations: []*show.Annotation{}}, nil
	default:
		log.CtxError(ctx, "读取批注失败: submissionId=%s, err=%v", req.SubmissionId, err)
		return nil, consts.ErrGetAnnotations
	}
}

// buildAnnotations 校验并规范化客户端批注：翻转负宽高，丢弃过小的框，补默认颜色，服务端生成 id 与创建信息
func buildAnnotations(inputs []*show.AnnotationInput, userID string, now time.Time) ([]*annotation.Annotation, error) {
	result := make([]*annotation.Annotation, 0, len(inputs))
	for _, in := range inputs {
		if in == nil {
			continue
		}
		if defaultColor(in.Type) == "" || in.Page < 1 {
			return nil, consts.ErrInvalidAnnotation
		}

		a := new(annotation.Annotation)
		if err := copier.Copy(a, in); err != nil {
			return nil, consts.ErrInvalidAnnotation
		}
		if a.Width < 0 {
			a.X, a.Width = a.X+a.Width, -a.Width
		}
		if a.Height < 0 {
			a.Y, a.Height = a.Y+a.Height, -a.Height
		}
		if a.Width <= consts.MinAnnotationSize || a.Height <= consts.MinAnnotationSize {
			continue
		}
		if a.Color == "" {
			a.Color = defaultColor(a.Type)
		}
		a.ID = uuid.NewString()
		a.CreatedBy = userID
		a.CreateTime = now
		result = append(result, a)
	}
	return result, nil
}

func defaultColor(typ string) string {
	switch typ {
	case consts.AnnotationHighlight:
		return consts.ColorHighlight
	case consts.AnnotationUnderline:
		return consts.ColorUnderline
	case consts.AnnotationComment:
		return consts.ColorComment
	}
	return ""
}

func toAnnotationDTOs(annotations []*annotation.Annotation) []*show.Annotation {
	return lo.Map(annotations, func(a *annotation.Annotation, _ int) *show.Annotation {
		dto := new(show.Annotation)
		_ = copier.Copy(dto, a)
		dto.Id = a.ID
		dto.CreatedAt = a.CreateTime
		return dto
	})
}

func toAnnotationsResp(submissionID string, layer *annotation.Layer) *show.AnnotationsResp {
	resp := &show.AnnotationsResp{SubmissionId: submissionID, Annotations: []*show.Annotation{}}
	if layer == nil {
		return resp
	}
	resp.Annotations = toAnnotationDTOs(layer.Annotations)
	updated := layer.UpdateTime
	resp.UpdatedAt = &updated
	return resp
}

// submissionLookupErr 把提交查询错误映射为对外错误
func submissionLookupErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, consts.ErrNotFound), errors.Is(err, consts.ErrInvalidObjectId):
		return err
	default:
		log.CtxError(ctx, "查询提交失败: %v", err)
		return consts.ErrCall
	}
}
