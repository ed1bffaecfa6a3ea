package correction

import (
	"essay-review/biz/infrastructure/repository/annotation"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Correction 主记录，保存在 Mongo corrections 集合
type Correction struct {
	ID           primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	SubmissionID string                   `bson:"submission_id" json:"submissionId"`
	TeacherID    string                   `bson:"teacher_id" json:"teacherId"`
	Content      string                   `bson:"content" json:"content"`
	Score        int64                    `bson:"score" json:"score"`
	Feedback     string                   `bson:"feedback" json:"feedback"`
	Annotations  []*annotation.Annotation `bson:"annotations" json:"annotations"`
	CreateTime   time.Time                `bson:"create_time" json:"createdAt"`
	UpdateTime   time.Time                `bson:"update_time" json:"updatedAt"`
}

// Record 副记录，保存在 MySQL correction_record 表，(student_id, answer_id) 唯一
type Record struct {
	ID         int64     `db:"id" json:"id"`
	StudentID  string    `db:"student_id" json:"studentId" validate:"required,len=24,hexadecimal"`
	TeacherID  string    `db:"teacher_id" json:"teacherId" validate:"required,len=24,hexadecimal"`
	AnswerID   string    `db:"answer_id" json:"answerId" validate:"required,len=24,hexadecimal"`
	Feedback   string    `db:"feedback" json:"feedback" validate:"required,max=65535"`
	CreateTime time.Time `db:"create_time" json:"createdAt" validate:"required"`
}
