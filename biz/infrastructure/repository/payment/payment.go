package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID     string             `bson:"student_id" json:"studentId"`
	AnswerID      string             `bson:"answer_id" json:"answerId"`
	Amount        int64              `bson:"amount" json:"amount"`
	Status        string             `bson:"status" json:"status"` // pending / paid / failed
	Method        string             `bson:"method" json:"method"`
	TransactionID *string            `bson:"transaction_id,omitempty" json:"transactionId,omitempty"`
	CreateTime    time.Time          `bson:"create_time" json:"createdAt"`
	UpdateTime    time.Time          `bson:"update_time" json:"updatedAt"`
}
