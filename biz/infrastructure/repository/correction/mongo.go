package correction

import (
	"context"
	"errors"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "corrections"

type IMongoMapper interface {
	Insert(ctx context.Context, c *Correction) error
	Delete(ctx context.Context, id string) error
	FindBySubmission(ctx context.Context, submissionID string) (*Correction, error)
	FindBySubmissions(ctx context.Context, submissionIDs []string) (map[string]*Correction, error)
	FindByTeacher(ctx context.Context, teacherID string) ([]*Correction, error)
	FindAll(ctx context.Context) ([]*Correction, error)
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewCorrectionMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, c *Correction) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
		c.CreateTime = time.Now()
		c.UpdateTime = c.CreateTime
	}
	_, err := m.conn.InsertOneNoCache(ctx, c)
	return err
}

func (m *MongoMapper) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	_, err = m.conn.DeleteOneNoCache(ctx, bson.M{consts.ID: oid})
	return err
}

func (m *MongoMapper) FindBySubmission(ctx context.Context, submissionID string) (*Correction, error) {
	var c Correction
	err := m.conn.FindOneNoCache(ctx, &c, bson.M{consts.SubmissionID: submissionID})
	switch {
	case err == nil:
		return &c, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

func (m *MongoMapper) FindBySubmissions(ctx context.Context, submissionIDs []string) (map[string]*Correction, error) {
	result := make(map[string]*Correction, len(submissionIDs))
	if len(submissionIDs) == 0 {
		return result, nil
	}
	corrections, err := m.find(ctx, bson.M{consts.SubmissionID: bson.M{consts.In: submissionIDs}})
	if err != nil {
		return nil, err
	}
	for _, c := range corrections {
		result[c.SubmissionID] = c
	}
	return result, nil
}

func (m *MongoMapper) FindByTeacher(ctx context.Context, teacherID string) ([]*Correction, error) {
	return m.find(ctx, bson.M{consts.TeacherID: teacherID})
}

func (m *MongoMapper) FindAll(ctx context.Context) ([]*Correction, error) {
	return m.find(ctx, bson.M{})
}

func (m *MongoMapper) find(ctx context.Context, filter bson.M) ([]*Correction, error) {
	var corrections []*Correction
	err := m.conn.Find(ctx, &corrections, filter, &options.FindOptions{
		Sort: bson.M{consts.CreateTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return corrections, nil
}
