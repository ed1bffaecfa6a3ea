package lock

import (
	"context"
	"errors"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/redis"
	"fmt"

	gozero_redis "github.com/zeromicro/go-zero/core/stores/redis"
)

const correctionLockPrefix = "lock:correction"

var ErrLocked = errors.New("lock is held by another request")

// ILocker 按提交加锁，保证同一提交的查重与双写串行
type ILocker interface {
	Lock(ctx context.Context, submissionID string) (unlock func(), err error)
}

type RedisLocker struct {
	rds *gozero_redis.Redis
}

func NewRedisLocker(config *config.Config) *RedisLocker {
	return &RedisLocker{
		rds: redis.GetRedis(config),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, submissionID string) (func(), error) {
	lk := gozero_redis.NewRedisLock(l.rds, fmt.Sprintf("%s:%s", correctionLockPrefix, submissionID))
	lk.SetExpire(consts.CorrectionLockExpire)

	ok, err := lk.AcquireCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// 释放使用独立 context，请求取消后仍需解锁
		_, _ = lk.ReleaseCtx(context.WithoutCancel(ctx))
	}, nil
}
