package problem

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Problem 论述题，由教师出题，学生付费后获得批改
type Problem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     time.Time          `bson:"due_date" json:"dueDate"`
	PdfURL      string             `bson:"pdf_url,omitempty" json:"pdfUrl,omitempty"`
	Price       int64              `bson:"price" json:"price"`
	TeacherID   string             `bson:"teacher_id" json:"teacherId"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreateTime  time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime  time.Time          `bson:"update_time" json:"updateTime"`
}
