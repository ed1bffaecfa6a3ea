package cache

import (
	"context"
	"errors"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/redis"
	"fmt"

	"github.com/bytedance/sonic"
	gozero_redis "github.com/zeromicro/go-zero/core/stores/redis"
)

const reportCachePrefix = "correction_report"

var ErrCacheMiss = errors.New("cache miss")

type IReportCacheMapper interface {
	Get(ctx context.Context, submissionID string) (*show.CorrectionReport, error)
	Set(ctx context.Context, submissionID string, report *show.CorrectionReport) error
	Delete(ctx context.Context, submissionID string) error
}

type ReportCacheMapper struct {
	rds *gozero_redis.Redis
}

func NewReportCacheMapper(config *config.Config) *ReportCacheMapper {
	return &ReportCacheMapper{
		rds: redis.GetRedis(config),
	}
}

// Get 读取导出报告缓存，未命中返回 ErrCacheMiss
func (m *ReportCacheMapper) Get(ctx context.Context, submissionID string) (*show.CorrectionReport, error) {
	cachedData, err := m.rds.GetCtx(ctx, m.buildCacheKey(submissionID))
	if err != nil {
		return nil, err
	}
	if cachedData == "" {
		return nil, ErrCacheMiss
	}

	var report show.CorrectionReport
	if err = sonic.UnmarshalString(cachedData, &report); err != nil {
		return nil, fmt.Errorf("unmarshal cached report failed: %w", err)
	}
	return &report, nil
}

func (m *ReportCacheMapper) Set(ctx context.Context, submissionID string, report *show.CorrectionReport) error {
	data, err := sonic.MarshalString(report)
	if err != nil {
		return fmt.Errorf("marshal report failed: %w", err)
	}
	return m.rds.SetexCtx(ctx, m.buildCacheKey(submissionID), data, consts.ReportCacheExpire)
}

// Delete 批注变更后失效
func (m *ReportCacheMapper) Delete(ctx context.Context, submissionID string) error {
	_, err := m.rds.DelCtx(ctx, m.buildCacheKey(submissionID))
	return err
}

func (m *ReportCacheMapper) buildCacheKey(submissionID string) string {
	return fmt.Sprintf("%s:%s", reportCachePrefix, submissionID)
}
