package problem

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

const (
	prefixProblemCacheKey = "cache:essay_problem"
	CollectionName        = "essay_problems"
)

type IMongoMapper interface {
	Insert(ctx context.Context, p *Problem) error
	FindOne(ctx context.Context, id string) (*Problem, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]*Problem, error)
	FindActive(ctx context.Context) ([]*Problem, error)
	FindMany(ctx context.Context, ids []string) (map[string]*Problem, error)
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewProblemMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, p *Problem) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
		p.CreateTime = time.Now()
		p.UpdateTime = p.CreateTime
	}
	_, err := m.conn.InsertOneNoCache(ctx, p)
	return err
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*Problem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var p Problem
	// 题目创建后不再修改，可直接走缓存
	err = m.conn.FindOne(ctx, prefixProblemCacheKey+id, &p, bson.M{
		consts.ID: oid,
	})
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

func (m *MongoMapper) FindByTeacher(ctx context.Context, teacherID string) ([]*Problem, error) {
	var problems []*Problem
	err := m.conn.Find(ctx, &problems, bson.M{consts.TeacherID: teacherID}, &options.FindOptions{
		Sort: bson.M{consts.CreateTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}

func (m *MongoMapper) FindActive(ctx context.Context) ([]*Problem, error) {
	var problems []*Problem
	err := m.conn.Find(ctx, &problems, bson.M{consts.IsActive: true}, &options.FindOptions{
		Sort: bson.M{consts.CreateTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return problems, nil
}

// FindMany 批量查询，跳过格式非法的 id
func (m *MongoMapper) FindMany(ctx context.Context, ids []string) (map[string]*Problem, error) {
	oids := toObjectIDs(ids)
	result := make(map[string]*Problem, len(oids))
	if len(oids) == 0 {
		return result, nil
	}
	var problems []*Problem
	if err := m.conn.Find(ctx, &problems, bson.M{consts.ID: bson.M{consts.In: oids}}); err != nil {
		return nil, err
	}
	for _, p := range problems {
		result[p.ID.Hex()] = p
	}
	return result, nil
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	return lo.FilterMap(lo.Uniq(ids), func(id string, _ int) (primitive.ObjectID, bool) {
		oid, err := primitive.ObjectIDFromHex(id)
		return oid, err == nil
	})
}
