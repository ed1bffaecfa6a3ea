package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Data struct {
	SubmissionID string `bson:"submission_id,omitempty" json:"submissionId,omitempty"`
	ProblemID    string `bson:"problem_id,omitempty" json:"problemId,omitempty"`
	CorrectionID string `bson:"correction_id,omitempty" json:"correctionId,omitempty"`
}

type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     string             `bson:"user_id" json:"userId"`
	Type       string             `bson:"type" json:"type"`
	Title      string             `bson:"title" json:"title"`
	Message    string             `bson:"message" json:"message"`
	Data       *Data              `bson:"data,omitempty" json:"data,omitempty"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreateTime time.Time          `bson:"create_time" json:"createdAt"`
}
