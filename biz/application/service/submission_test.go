package service

import (
	"context"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/repository/user"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmitAnswer(t *testing.T) {
	teacherID := newID()
	open := &problem.Problem{ID: primitive.NewObjectID(), Title: "Open", TeacherID: teacherID, IsActive: true, DueDate: time.Now().Add(time.Hour)}
	closed := &problem.Problem{ID: primitive.NewObjectID(), Title: "Closed", TeacherID: teacherID, IsActive: true, DueDate: time.Now().Add(-time.Hour)}
	inactive := &problem.Problem{ID: primitive.NewObjectID(), Title: "Inactive", TeacherID: teacherID}
	student := &user.User{ID: primitive.NewObjectID(), Name: "Kim", Role: consts.RoleStudent}

	subs := newFakeSubmissions()
	svc := &SubmissionService{
		SubmissionMapper: subs,
		ProblemMapper:    newFakeProblems(open, closed, inactive),
		UserMapper:       newFakeUsers(student),
	}
	ctx := userCtx(student.ID.Hex(), consts.RoleStudent)

	resp, err := svc.SubmitAnswer(ctx, &show.SubmitAnswerReq{ProblemId: open.ID.Hex(), Content: "essay"})
	require.NoError(t, err)
	assert.Equal(t, consts.SubmissionSubmitted, resp.Status)

	_, err = svc.SubmitAnswer(ctx, &show.SubmitAnswerReq{ProblemId: open.ID.Hex(), Content: "again"})
	assert.Equal(t, consts.ErrRepeatedSubmission, err)

	_, err = svc.SubmitAnswer(ctx, &show.SubmitAnswerReq{ProblemId: closed.ID.Hex(), Content: "late"})
	assert.Equal(t, consts.ErrDueDatePassed, err)

	_, err = svc.SubmitAnswer(ctx, &show.SubmitAnswerReq{ProblemId: inactive.ID.Hex(), Content: "x"})
	assert.Equal(t, consts.ErrNotFound, err)

	_, err = svc.SubmitAnswer(ctx, &show.SubmitAnswerReq{ProblemId: open.ID.Hex(), Content: "  "})
	assert.Equal(t, consts.ErrEmptyAnswer, err)

	_, err = svc.SubmitAnswer(userCtx(teacherID, consts.RoleTeacher), &show.SubmitAnswerReq{ProblemId: open.ID.Hex(), Content: "x"})
	assert.Equal(t, consts.ErrStudentOnly, err)

	list, err := svc.ListSubmissions(userCtx(teacherID, consts.RoleTeacher))
	require.NoError(t, err)
	require.Len(t, list.Submissions, 1)
	assert.Equal(t, "Open", list.Submissions[0].Problem.Title)
	assert.Equal(t, "Kim", list.Submissions[0].Student.Name)

	list, err = svc.ListSubmissions(userCtx(newID(), consts.RoleTeacher))
	require.NoError(t, err)
	assert.Empty(t, list.Submissions)

	list, err = svc.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Submissions, 1)
}

func TestListSubmissions_ScopedByRole(t *testing.T) {
	teacherA, teacherB := newID(), newID()
	studentA := &user.User{ID: primitive.NewObjectID(), Name: "Kim", Role: consts.RoleStudent}
	studentB := &user.User{ID: primitive.NewObjectID(), Name: "Park", Role: consts.RoleStudent}
	p1 := &problem.Problem{ID: primitive.NewObjectID(), Title: "P1", TeacherID: teacherA, IsActive: true}
	p2 := &problem.Problem{ID: primitive.NewObjectID(), Title: "P2", TeacherID: teacherA, IsActive: true}
	p3 := &problem.Problem{ID: primitive.NewObjectID(), Title: "P3", TeacherID: teacherB, IsActive: true}

	newSub := func(p *problem.Problem, st *user.User) *submission.Submission {
		return &submission.Submission{ID: primitive.NewObjectID(), ProblemID: p.ID.Hex(), StudentID: st.ID.Hex(), Status: consts.SubmissionSubmitted}
	}
	a1, a3, b2 := newSub(p1, studentA), newSub(p3, studentA), newSub(p2, studentB)

	svc := &SubmissionService{
		SubmissionMapper: newFakeSubmissions(a1, a3, b2),
		ProblemMapper:    newFakeProblems(p1, p2, p3),
		UserMapper:       newFakeUsers(studentA, studentB),
	}

	tests := []struct {
		name string
		ctx  context.Context
		want []string
		err  error
	}{
		{name: "student sees own", ctx: userCtx(studentA.ID.Hex(), consts.RoleStudent), want: []string{a1.ID.Hex(), a3.ID.Hex()}},
		{name: "other student sees own", ctx: userCtx(studentB.ID.Hex(), consts.RoleStudent), want: []string{b2.ID.Hex()}},
		{name: "teacher sees own problems", ctx: userCtx(teacherA, consts.RoleTeacher), want: []string{a1.ID.Hex(), b2.ID.Hex()}},
		{name: "other teacher", ctx: userCtx(teacherB, consts.RoleTeacher), want: []string{a3.ID.Hex()}},
		{name: "teacher without problems", ctx: userCtx(newID(), consts.RoleTeacher), want: []string{}},
		{name: "admin sees all", ctx: userCtx(newID(), consts.RoleAdmin), want: []string{a1.ID.Hex(), a3.ID.Hex(), b2.ID.Hex()}},
		{name: "unknown role", ctx: userCtx(newID(), "guest"), err: consts.ErrForbidden},
		{name: "anonymous", ctx: context.Background(), err: consts.ErrNotAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListSubmissions(tt.ctx)
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
				return
			}
			require.NoError(t, err)
			ids := lo.Map(resp.Submissions, func(s *show.Submission, _ int) string { return s.Id })
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, int64(len(tt.want)), resp.Total)
			for _, s := range resp.Submissions {
				require.NotNil(t, s.Problem)
				require.NotNil(t, s.Student)
			}
		})
	}
}
