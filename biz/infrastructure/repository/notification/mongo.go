package notification

import (
	"context"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/util/log"
	"time"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "notifications"

type IMongoMapper interface {
	Insert(ctx context.Context, n *Notification) error
	FindByUser(ctx context.Context, userID string, isRead *bool, limit int64) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewNotificationMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, n *Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
		n.CreateTime = time.Now()
	}
	_, err := m.conn.InsertOneNoCache(ctx, n)
	return err
}

func (m *MongoMapper) FindByUser(ctx context.Context, userID string, isRead *bool, limit int64) ([]*Notification, error) {
	var notifications []*Notification
	filter := bson.M{consts.UserID: userID}
	if isRead != nil {
		filter[consts.IsRead] = *isRead
	}
	err := m.conn.Find(ctx, &notifications, filter, &options.FindOptions{
		Limit: &limit,
		Sort:  bson.M{consts.CreateTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead 过滤条件同时带上 user_id，他人的通知与不存在的通知同样返回 ErrNotFound
func (m *MongoMapper) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrNotFound
	}
	res, err := m.conn.UpdateOneNoCache(ctx,
		bson.M{consts.ID: oid, consts.UserID: userID},
		bson.M{consts.Set: bson.M{consts.IsRead: true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return consts.ErrNotFound
	}
	return nil
}
