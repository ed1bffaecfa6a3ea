package show

import "time"

// Response 统一返回结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type UserBrief struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ProblemBrief struct {
	Id      string    `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"dueDate"`
	Price   int64     `json:"price"`
}

type SubmissionBrief struct {
	Id          string    `json:"id"`
	ProblemId   string    `json:"problemId"`
	StudentId   string    `json:"studentId"`
	Content     string    `json:"content,omitempty"`
	PdfUrl      string    `json:"pdfUrl,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
}
