package annotation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Annotation struct {
	ID         string    `bson:"id" json:"id"`
	Type       string    `bson:"type" json:"type"` // highlight / comment / underline
	Page       int64     `bson:"page" json:"page"`
	X          float64   `bson:"x" json:"x"`
	Y          float64   `bson:"y" json:"y"`
	Width      float64   `bson:"width" json:"width"`
	Height     float64   `bson:"height" json:"height"`
	Color      string    `bson:"color" json:"color"`
	Content    *string   `bson:"content,omitempty" json:"content,omitempty"`
	CreatedBy  string    `bson:"created_by" json:"createdBy"`
	CreateTime time.Time `bson:"create_time" json:"createdAt"`
}

// Layer 每个提交至多一个批注层，更新时整体替换 Annotations
type Layer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SubmissionID string             `bson:"submission_id" json:"submissionId"`
	Annotations  []*Annotation      `bson:"annotations" json:"annotations"`
	CreateTime   time.Time          `bson:"create_time" json:"createdAt"`
	UpdateTime   time.Time          `bson:"update_time" json:"updatedAt"`
}
