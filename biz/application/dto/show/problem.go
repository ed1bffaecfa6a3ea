package show

import "time"

type CreateProblemReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	PdfUrl      string `json:"pdfUrl,omitempty"`
	Price       *int64 `json:"price"`
}

type Problem struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	PdfUrl      string    `json:"pdfUrl,omitempty"`
	Price       int64     `json:"price"`
	TeacherId   string    `json:"teacherId"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	// 仅学生列表返回
	IsSubmitted *bool `json:"isSubmitted,omitempty"`
	CanSubmit   *bool `json:"canSubmit,omitempty"`
}

type ListProblemsResp struct {
	Problems []*Problem `json:"problems"`
	Total    int64      `json:"total"`
}
