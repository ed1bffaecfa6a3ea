package submission

import (
	"context"
	"errors"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/samber/lo"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "submissions"

type IMongoMapper interface {
	Insert(ctx context.Context, s *Submission) error
	FindOne(ctx context.Context, id string) (*Submission, error)
	FindMany(ctx context.Context, ids []string) (map[string]*Submission, error)
	FindByStudentAndProblem(ctx context.Context, studentID, problemID string) (*Submission, error)
	FindByStudent(ctx context.Context, studentID string) ([]*Submission, error)
	FindByProblems(ctx context.Context, problemIDs []string) ([]*Submission, error)
	FindAll(ctx context.Context) ([]*Submission, error)
	Complete(ctx context.Context, id string, review *Review) error
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewSubmissionMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, s *Submission) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
		s.SubmitTime = time.Now()
		s.UpdateTime = s.SubmitTime
	}
	if s.Status == "" {
		s.Status = consts.SubmissionSubmitted
	}
	_, err := m.conn.InsertOneNoCache(ctx, s)
	return err
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var s Submission
	err = m.conn.FindOneNoCache(ctx, &s, bson.M{
		consts.ID: oid,
	})
	switch {
	case err == nil:
		return &s, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

// FindMany 批量查询，跳过格式非法的 id
func (m *MongoMapper) FindMany(ctx context.Context, ids []string) (map[string]*Submission, error) {
	oids := lo.FilterMap(lo.Uniq(ids), func(id string, _ int) (primitive.ObjectID, bool) {
		oid, err := primitive.ObjectIDFromHex(id)
		return oid, err == nil
	})
	result := make(map[string]*Submission, len(oids))
	if len(oids) == 0 {
		return result, nil
	}
	submissions, err := m.find(ctx, bson.M{consts.ID: bson.M{consts.In: oids}})
	if err != nil {
		return nil, err
	}
	for _, s := range submissions {
		result[s.ID.Hex()] = s
	}
	return result, nil
}

func (m *MongoMapper) FindByStudentAndProblem(ctx context.Context, studentID, problemID string) (*Submission, error) {
	var s Submission
	err := m.conn.FindOneNoCache(ctx, &s, bson.M{
		consts.StudentID: studentID,
		consts.ProblemID: problemID,
	})
	switch {
	case err == nil:
		return &s, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

func (m *MongoMapper) FindByStudent(ctx context.Context, studentID string) ([]*Submission, error) {
	return m.find(ctx, bson.M{consts.StudentID: studentID})
}

func (m *MongoMapper) FindByProblems(ctx context.Context, problemIDs []string) ([]*Submission, error) {
	if len(problemIDs) == 0 {
		return []*Submission{}, nil
	}
	return m.find(ctx, bson.M{consts.ProblemID: bson.M{consts.In: problemIDs}})
}

func (m *MongoMapper) FindAll(ctx context.Context) ([]*Submission, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoMapper) find(ctx context.Context, filter bson.M) ([]*Submission, error) {
	var submissions []*Submission
	err := m.conn.Find(ctx, &submissions, filter, &options.FindOptions{
		Sort: bson.M{consts.SubmitTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

// Complete 提交直接由 submitted 进入 completed，并写入分数与评语
func (m *MongoMapper) Complete(ctx context.Context, id string, review *Review) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	res, err := m.conn.UpdateByIDNoCache(ctx, oid, bson.M{
		consts.Set: bson.M{
			consts.Status:     consts.SubmissionCompleted,
			"score":           review.Score,
			"feedback":        review.Feedback,
			"reviewed_by":     review.ReviewedBy,
			"reviewed_at":     review.ReviewedAt,
			consts.UpdateTime: time.Now(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return consts.ErrNotFound
	}
	return nil
}
