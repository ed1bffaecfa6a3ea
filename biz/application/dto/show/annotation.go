package show

import "time"

type AnnotationInput struct {
	Type    string  `json:"type"`
	Page    int64   `json:"page"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Color   string  `json:"color,omitempty"`
	Content *string `json:"content,omitempty"`
}

type Annotation struct {
	Id        string    `json:"id"`
	Type      string    `json:"type"`
	Page      int64     `json:"page"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Color     string    `json:"color"`
	Content   *string   `json:"content,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type SaveAnnotationsReq struct {
	SubmissionId string             `path:"submissionId"`
	Annotations  []*AnnotationInput `json:"annotations"`
}

type LoadAnnotationsReq struct {
	SubmissionId string `path:"submissionId"`
}

type AnnotationsResp struct {
	SubmissionId string        `json:"submissionId"`
	Annotations  []*Annotation `json:"annotations"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty"`
}
