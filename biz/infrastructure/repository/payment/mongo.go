package payment

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
)

const CollectionName = "payments"

type IMongoMapper interface {
	Insert(ctx context.Context, p *Payment) error
	FindPaidByAnswer(ctx context.Context, answerID string) (*Payment, error)
	FindActive(ctx context.Context, studentID, answerID string) (*Payment, error)
	UpdateStatus(ctx context.Context, id string, status string, transactionID *string) error
	MarkFailed(ctx context.Context, id string) error
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewPaymentMongoMapper config: %v, collection: %s", config, CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, p *Payment) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
		p.CreateTime = time.Now()
		p.UpdateTime = p.CreateTime
	}
	_, err := m.conn.InsertOneNoCache(ctx, p)
	return err
}

// FindPaidByAnswer 查找答案对应的已支付记录
func (m *MongoMapper) FindPaidByAnswer(ctx context.Context, answerID string) (*Payment, error) {
	return m.findOne(ctx, bson.M{
		consts.AnswerID: answerID,
		consts.Status:   consts.PaymentPaid,
	})
}

// FindActive 查找同一学生同一答案下 pending 或 paid 的记录，用于防止重复扣款
func (m *MongoMapper) FindActive(ctx context.Context, studentID, answerID string) (*Payment, error) {
	return m.findOne(ctx, bson.M{
		consts.StudentID: studentID,
		consts.AnswerID:  answerID,
		consts.Status:    bson.M{consts.In: []string{consts.PaymentPending, consts.PaymentPaid}},
	})
}

func (m *MongoMapper) findOne(ctx context.Context, filter bson.M) (*Payment, error) {
	var p Payment
	err := m.conn.FindOneNoCache(ctx, &p, filter)
	switch {
	case err == nil:
		return &p, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrNotFound
	default:
		return nil, err
	}
}

func (m *MongoMapper) UpdateStatus(ctx context.Context, id string, status string, transactionID *string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	set := bson.M{
		consts.Status:     status,
		consts.UpdateTime: time.Now(),
	}
	if transactionID != nil && *transactionID != "" {
		set["transaction_id"] = *transactionID
	}
	res, err := m.conn.UpdateByIDNoCache(ctx, oid, bson.M{consts.Set: set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return consts.ErrNotFound
	}
	return nil
}

// MarkFailed 已支付的记录不会被降级，返回 consts.ErrPaymentSettled
func (m *MongoMapper) MarkFailed(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	res, err := m.conn.UpdateOneNoCache(ctx,
		bson.M{consts.ID: oid, consts.Status: bson.M{"$ne": consts.PaymentPaid}},
		bson.M{consts.Set: bson.M{
			consts.Status:     consts.PaymentFailed,
			consts.UpdateTime: time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err = m.findOne(ctx, bson.M{consts.ID: oid}); err != nil {
		return err
	}
	return consts.ErrPaymentSettled
}
