package annotation

import (
	"context"
	"errors"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "pdf_annotations"

type IMongoMapper interface {
	FindBySubmission(ctx context.Context, submissionID string) (*Layer, error)
	Upsert(ctx context.Context, submissionID string, annotations []*Annotation) (*Layer, error)
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) (*MongoMapper, error) {
	log.Info("NewAnnotationMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	m := &MongoMapper{
		conn: conn,
	}
	if err := m.EnsureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

// EnsureIndexes 每个提交至多一层批注，由 submission_id 唯一索引保证
func (m *MongoMapper) EnsureIndexes(ctx context.Context) error {
	_, err := m.conn.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: consts.SubmissionID, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uk_submission_id"),
	})
	if err != nil {
		log.Error("Failed to create pdf_annotations index: %v", err)
		return fmt.Errorf("failed to create pdf_annotations index: %w", err)
	}
	return nil
}

func (m *MongoMapper) FindBySubmission(ctx context.Context, submissionID string) (*Layer, error) {
	var l Layer
	err := m.conn.FindOneNoCache(ctx, &l, bson.M{consts.SubmissionID: submissionID})
	switch {
	case err == nil:
		return &l, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

// Upsert 按 submission_id 替换整层批注，不存在时新建
func (m *MongoMapper) Upsert(ctx context.Context, submissionID string, annotations []*Annotation) (*Layer, error) {
	now := time.Now()
	err := retryOnDuplicate(func() error {
		_, err := m.conn.UpdateOneNoCache(ctx,
			bson.M{consts.SubmissionID: submissionID},
			bson.M{
				consts.Set: bson.M{
					"annotations":     annotations,
					consts.UpdateTime: now,
				},
				"$setOnInsert": bson.M{
					consts.CreateTime: now,
				},
			},
			options.Update().SetUpsert(true),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m.FindBySubmission(ctx, submissionID)
}

// retryOnDuplicate 并发首次保存时只有一方能插入，另一方撞上唯一索引后重试即命中更新
func retryOnDuplicate(upsert func() error) error {
	err := upsert()
	if mongo.IsDuplicateKeyError(err) {
		return upsert()
	}
	return err
}
