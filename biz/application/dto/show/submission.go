package show

type SubmitAnswerReq struct {
	ProblemId string `json:"problemId"`
	Content   string `json:"content,omitempty"`
	PdfUrl    string `json:"pdfUrl,omitempty"`
}

type SubmitAnswerResp struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type Submission struct {
	SubmissionBrief
	Score      *int64        `json:"score,omitempty"`
	Feedback   *string       `json:"feedback,omitempty"`
	ReviewedBy *string       `json:"reviewedBy,omitempty"`
	Problem    *ProblemBrief `json:"problem,omitempty"`
	Student    *UserBrief    `json:"student,omitempty"`
}

type ListSubmissionsResp struct {
	Submissions []*Submission `json:"submissions"`
	Total       int64         `json:"total"`
}
