package user

import (
	"context"
	"errors"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"

	"github.com/samber/lo"
	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	prefixUserCacheKey = "cache:user"
	CollectionName     = "users"
)

type IMongoMapper interface {
	FindOne(ctx context.Context, id string) (*User, error)
	FindMany(ctx context.Context, ids []string) (map[string]*User, error)
	FindByRole(ctx context.Context, role string) ([]*User, error)
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewUserMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) FindOne(ctx context.Context, id string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	var u User
	err = m.conn.FindOne(ctx, prefixUserCacheKey+id, &u, bson.M{consts.ID: oid})
	switch {
	case err == nil:
		return &u, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

func (m *MongoMapper) FindMany(ctx context.Context, ids []string) (map[string]*User, error) {
	oids := lo.FilterMap(lo.Uniq(ids), func(id string, _ int) (primitive.ObjectID, bool) {
		oid, err := primitive.ObjectIDFromHex(id)
		return oid, err == nil
	})
	result := make(map[string]*User, len(oids))
	if len(oids) == 0 {
		return result, nil
	}
	var users []*User
	if err := m.conn.Find(ctx, &users, bson.M{consts.ID: bson.M{consts.In: oids}}); err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID.Hex()] = u
	}
	return result, nil
}

func (m *MongoMapper) FindByRole(ctx context.Context, role string) ([]*User, error) {
	var users []*User
	if err := m.conn.Find(ctx, &users, bson.M{consts.Role: role}); err != nil {
		return nil, err
	}
	return users, nil
}
