package show

import "time"

type CreateCorrectionReq struct {
	SubmissionId string             `json:"submissionId"`
	Content      string             `json:"content"`
	Score        *int64             `json:"score"`
	Feedback     string             `json:"feedback"`
	Annotations  []*AnnotationInput `json:"annotations,omitempty"`
}

type CreateCorrectionResp struct {
	Id           string `json:"id"`
	RecordId     int64  `json:"recordId"`
	SubmissionId string `json:"submissionId"`
	Content      string `json:"content"`
	Score        int64  `json:"score"`
	Feedback     string `json:"feedback"`
}

type Correction struct {
	Id           string           `json:"id"`
	SubmissionId string           `json:"submissionId"`
	TeacherId    string           `json:"teacherId"`
	Content      string           `json:"content"`
	Score        int64            `json:"score"`
	Feedback     string           `json:"feedback"`
	CreatedAt    time.Time        `json:"createdAt"`
	Submission   *SubmissionBrief `json:"submission,omitempty"`
	Problem      *ProblemBrief    `json:"problem,omitempty"`
	Student      *UserBrief       `json:"student,omitempty"`
	Teacher      *UserBrief       `json:"teacher,omitempty"`
}

type ListCorrectionsResp struct {
	Corrections []*Correction `json:"corrections"`
	Total       int64         `json:"total"`
}

type ListStudentCorrectionsReq struct {
	StudentId string `path:"id"`
}

// StudentCorrection 副记录视图
type StudentCorrection struct {
	Id        int64      `json:"id"`
	StudentId string     `json:"studentId"`
	AnswerId  string     `json:"answerId"`
	TeacherId string     `json:"teacherId"`
	Feedback  string     `json:"feedback"`
	CreatedAt time.Time  `json:"createdAt"`
	Teacher   *UserBrief `json:"teacher,omitempty"`
}

type ListStudentCorrectionsResp struct {
	Corrections []*StudentCorrection `json:"corrections"`
	Total       int64                `json:"total"`
}

type ExportCorrectionReq struct {
	SubmissionId string `json:"submissionId"`
}

// CorrectionReport 批改导出报告
type CorrectionReport struct {
	Submission  *SubmissionBrief `json:"submission"`
	Problem     *ProblemBrief    `json:"problem,omitempty"`
	Student     *UserBrief       `json:"student,omitempty"`
	Correction  *Correction      `json:"correction"`
	Annotations []*Annotation    `json:"annotations"`
	GeneratedAt time.Time        `json:"generatedAt"`
}
