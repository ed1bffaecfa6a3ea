package submission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Submission struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProblemID  string             `bson:"problem_id" json:"problemId"`
	StudentID  string             `bson:"student_id" json:"studentId"`
	Content    string             `bson:"content" json:"content"`
	PdfURL     string             `bson:"pdf_url,omitempty" json:"pdfUrl,omitempty"`
	Status     string             `bson:"status" json:"status"` // submitted / reviewing / completed
	Score      *int64             `bson:"score,omitempty" json:"score,omitempty"`
	Feedback   *string            `bson:"feedback,omitempty" json:"feedback,omitempty"`
	ReviewedBy *string            `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time         `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	SubmitTime time.Time          `bson:"submit_time" json:"submittedAt"`
	UpdateTime time.Time          `bson:"update_time" json:"updateTime"`
}

// Review 批改完成后回写到提交上的字段
type Review struct {
	Score      int64
	Feedback   string
	ReviewedBy string
	ReviewedAt time.Time
}
