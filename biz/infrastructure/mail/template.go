package mail

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// CorrectionCompleted 批改完成邮件参数
type CorrectionCompleted struct {
	StudentName  string
	ProblemTitle string
	TeacherName  string
	Score        int64
	Feedback     string
	Link         string
}

func RenderCorrectionCompleted(data *CorrectionCompleted) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "correction_completed.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewProblem 新题目邮件参数
type NewProblem struct {
	StudentName  string
	ProblemTitle string
	TeacherName  string
	DueDate      string
	Link         string
}

func RenderNewProblem(data *NewProblem) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "new_problem.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
