package service

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/application/dto/basic"
	"essay-review/biz/application/dto/show"
	"essay-review/biz/infrastructure/cache"
	"essay-review/biz/infrastructure/consts"
	"essay-review/biz/infrastructure/gateway"
	"essay-review/biz/infrastructure/lock"
	"essay-review/biz/infrastructure/mail"
	"essay-review/biz/infrastructure/repository/annotation"
	"essay-review/biz/infrastructure/repository/correction"
	"essay-review/biz/infrastructure/repository/notification"
	"essay-review/biz/infrastructure/repository/payment"
	"essay-review/biz/infrastructure/repository/problem"
	"essay-review/biz/infrastructure/repository/submission"
	"essay-review/biz/infrastructure/repository/user"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID() string {
	return primitive.NewObjectID().Hex()
}

func userCtx(id, role string) context.Context {
	return adaptor.WithUserMeta(context.Background(), &basic.UserMeta{
		UserId: id,
		Email:  id + "@example.com",
		Name:   role + "-" + id[len(id)-4:],
		Role:   role,
	})
}

type fakeSubmissions struct {
	items       map[string]*submission.Submission
	completeErr error
}

func newFakeSubmissions(subs ...*submission.Submission) *fakeSubmissions {
	f := &fakeSubmissions{items: map[string]*submission.Submission{}}
	for _, s := range subs {
		f.items[s.ID.Hex()] = s
	}
	return f
}

func (f *fakeSubmissions) Insert(_ context.Context, s *submission.Submission) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
		s.SubmitTime = time.Now()
	}
	f.items[s.ID.Hex()] = s
	return nil
}

func (f *fakeSubmissions) FindOne(_ context.Context, id string) (*submission.Submission, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	s, ok := f.items[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissions) FindMany(_ context.Context, ids []string) (map[string]*submission.Submission, error) {
	result := map[string]*submission.Submission{}
	for _, id := range ids {
		if s, ok := f.items[id]; ok {
			result[id] = s
		}
	}
	return result, nil
}

func (f *fakeSubmissions) FindByStudentAndProblem(_ context.Context, studentID, problemID string) (*submission.Submission, error) {
	for _, s := range f.items {
		if s.StudentID == studentID && s.ProblemID == problemID {
			return s, nil
		}
	}
	return nil, consts.ErrNotFound
}

func (f *fakeSubmissions) FindByStudent(_ context.Context, studentID string) ([]*submission.Submission, error) {
	return lo.Filter(lo.Values(f.items), func(s *submission.Submission, _ int) bool { return s.StudentID == studentID }), nil
}

func (f *fakeSubmissions) FindByProblems(_ context.Context, problemIDs []string) ([]*submission.Submission, error) {
	return lo.Filter(lo.Values(f.items), func(s *submission.Submission, _ int) bool {
		return lo.Contains(problemIDs, s.ProblemID)
	}), nil
}

func (f *fakeSubmissions) FindAll(_ context.Context) ([]*submission.Submission, error) {
	return lo.Values(f.items), nil
}

func (f *fakeSubmissions) Complete(_ context.Context, id string, review *submission.Review) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	s, ok := f.items[id]
	if !ok {
		return consts.ErrNotFound
	}
	s.Status = consts.SubmissionCompleted
	s.Score = &review.Score
	s.Feedback = &review.Feedback
	s.ReviewedBy = &review.ReviewedBy
	s.ReviewedAt = &review.ReviewedAt
	return nil
}

type fakePayments struct {
	items     map[string]*payment.Payment
	findErr   error
	updateErr error
}

func newFakePayments(ps ...*payment.Payment) *fakePayments {
	f := &fakePayments{items: map[string]*payment.Payment{}}
	for _, p := range ps {
		f.items[p.ID.Hex()] = p
	}
	return f
}

func (f *fakePayments) Insert(_ context.Context, p *payment.Payment) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
		p.CreateTime = time.Now()
		p.UpdateTime = p.CreateTime
	}
	f.items[p.ID.Hex()] = p
	return nil
}

func (f *fakePayments) FindPaidByAnswer(_ context.Context, answerID string) (*payment.Payment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, p := range f.items {
		if p.AnswerID == answerID && p.Status == consts.PaymentPaid {
			return p, nil
		}
	}
	return nil, consts.ErrNotFound
}

func (f *fakePayments) FindActive(_ context.Context, studentID, answerID string) (*payment.Payment, error) {
	for _, p := range f.items {
		if p.StudentID == studentID && p.AnswerID == answerID &&
			(p.Status == consts.PaymentPending || p.Status == consts.PaymentPaid) {
			return p, nil
		}
	}
	return nil, consts.ErrNotFound
}

func (f *fakePayments) UpdateStatus(_ context.Context, id string, status string, transactionID *string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return consts.ErrInvalidObjectId
	}
	p, ok := f.items[id]
	if !ok {
		return consts.ErrNotFound
	}
	p.Status = status
	if transactionID != nil {
		p.TransactionID = transactionID
	}
	return nil
}

func (f *fakePayments) MarkFailed(_ context.Context, id string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return consts.ErrInvalidObjectId
	}
	p, ok := f.items[id]
	if !ok {
		return consts.ErrNotFound
	}
	if p.Status == consts.PaymentPaid {
		return consts.ErrPaymentSettled
	}
	p.Status = consts.PaymentFailed
	return nil
}

func paidPayment(studentID, answerID string) *payment.Payment {
	return &payment.Payment{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		AnswerID:  answerID,
		Amount:    10000,
		Status:    consts.PaymentPaid,
		Method:    consts.MethodStripe,
	}
}

type fakeCorrections struct {
	items     map[string]*correction.Correction
	insertErr error
	deleted   []string
}

func newFakeCorrections() *fakeCorrections {
	return &fakeCorrections{items: map[string]*correction.Correction{}}
}

func (f *fakeCorrections) Insert(_ context.Context, c *correction.Correction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
		c.CreateTime = time.Now()
		c.UpdateTime = c.CreateTime
	}
	f.items[c.ID.Hex()] = c
	return nil
}

func (f *fakeCorrections) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCorrections) FindBySubmission(_ context.Context, submissionID string) (*correction.Correction, error) {
	for _, c := range f.items {
		if c.SubmissionID == submissionID {
			return c, nil
		}
	}
	return nil, consts.ErrNotFound
}

func (f *fakeCorrections) FindBySubmissions(_ context.Context, submissionIDs []string) (map[string]*correction.Correction, error) {
	result := map[string]*correction.Correction{}
	for _, c := range f.items {
		if lo.Contains(submissionIDs, c.SubmissionID) {
			result[c.SubmissionID] = c
		}
	}
	return result, nil
}

func (f *fakeCorrections) FindByTeacher(_ context.Context, teacherID string) ([]*correction.Correction, error) {
	return lo.Filter(lo.Values(f.items), func(c *correction.Correction, _ int) bool { return c.TeacherID == teacherID }), nil
}

func (f *fakeCorrections) FindAll(_ context.Context) ([]*correction.Correction, error) {
	return lo.Values(f.items), nil
}

// fakeRecords 模拟 (student_id, answer_id) 唯一约束
type fakeRecords struct {
	items     []*correction.Record
	nextID    int64
	insertErr error
	// 查重时看不到的并发写入，用于模拟唯一键兜底
	hidden  bool
	deleted []int64
}

func (f *fakeRecords) Insert(_ context.Context, r *correction.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, it := range f.items {
		if it.StudentID == r.StudentID && it.AnswerID == r.AnswerID {
			return consts.ErrDuplicateKey
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.items = append(f.items, r)
	return nil
}

func (f *fakeRecords) Delete(_ context.Context, id int64) error {
	f.items = lo.Reject(f.items, func(r *correction.Record, _ int) bool { return r.ID == id })
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecords) FindByStudentAndAnswer(_ context.Context, studentID, answerID string) (*correction.Record, error) {
	if f.hidden {
		return nil, consts.ErrNotFound
	}
	for _, r := range f.items {
		if r.StudentID == studentID && r.AnswerID == answerID {
			return r, nil
		}
	}
	return nil, consts.ErrNotFound
}

func (f *fakeRecords) FindByStudent(_ context.Context, studentID string) ([]*correction.Record, error) {
	return lo.Filter(f.items, func(r *correction.Record, _ int) bool { return r.StudentID == studentID }), nil
}

type fakeProblems struct {
	items map[string]*problem.Problem
}

func newFakeProblems(ps ...*problem.Problem) *fakeProblems {
	f := &fakeProblems{items: map[string]*problem.Problem{}}
	for _, p := range ps {
		f.items[p.ID.Hex()] = p
	}
	return f
}

func (f *fakeProblems) Insert(_ context.Context, p *problem.Problem) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.items[p.ID.Hex()] = p
	return nil
}

func (f *fakeProblems) FindOne(_ context.Context, id string) (*problem.Problem, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, consts.ErrInvalidObjectId
	}
	p, ok := f.items[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return p, nil
}

func (f *fakeProblems) FindByTeacher(_ context.Context, teacherID string) ([]*problem.Problem, error) {
	return lo.Filter(lo.Values(f.items), func(p *problem.Problem, _ int) bool { return p.TeacherID == teacherID }), nil
}

func (f *fakeProblems) FindActive(_ context.Context) ([]*problem.Problem, error) {
	return lo.Filter(lo.Values(f.items), func(p *problem.Problem, _ int) bool { return p.IsActive }), nil
}

func (f *fakeProblems) FindMany(_ context.Context, ids []string) (map[string]*problem.Problem, error) {
	return lo.PickByKeys(f.items, ids), nil
}

type fakeUsers struct {
	items map[string]*user.User
}

func newFakeUsers(us ...*user.User) *fakeUsers {
	f := &fakeUsers{items: map[string]*user.User{}}
	for _, u := range us {
		f.items[u.ID.Hex()] = u
	}
	return f
}

func (f *fakeUsers) FindOne(_ context.Context, id string) (*user.User, error) {
	u, ok := f.items[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindMany(_ context.Context, ids []string) (map[string]*user.User, error) {
	return lo.PickByKeys(f.items, ids), nil
}

func (f *fakeUsers) FindByRole(_ context.Context, role string) ([]*user.User, error) {
	return lo.Filter(lo.Values(f.items), func(u *user.User, _ int) bool { return u.Role == role }), nil
}

type fakeAnnotations struct {
	layers map[string]*annotation.Layer
}

func newFakeAnnotations() *fakeAnnotations {
	return &fakeAnnotations{layers: map[string]*annotation.Layer{}}
}

func (f *fakeAnnotations) FindBySubmission(_ context.Context, submissionID string) (*annotation.Layer, error) {
	l, ok := f.layers[submissionID]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return l, nil
}

func (f *fakeAnnotations) Upsert(_ context.Context, submissionID string, annotations []*annotation.Annotation) (*annotation.Layer, error) {
	now := time.Now()
	l, ok := f.layers[submissionID]
	if !ok {
		l = &annotation.Layer{ID: primitive.NewObjectID(), SubmissionID: submissionID, CreateTime: now}
		f.layers[submissionID] = l
	}
	l.Annotations = annotations
	l.UpdateTime = now
	return l, nil
}

type fakeNotifications struct {
	items     []*notification.Notification
	insertErr error
}

func (f *fakeNotifications) Insert(_ context.Context, n *notification.Notification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
		// 保证排序稳定
		n.CreateTime = time.Now().Add(time.Duration(len(f.items)) * time.Millisecond)
	}
	f.items = append(f.items, n)
	return nil
}

func (f *fakeNotifications) FindByUser(_ context.Context, userID string, isRead *bool, limit int64) ([]*notification.Notification, error) {
	result := lo.Filter(f.items, func(n *notification.Notification, _ int) bool {
		return n.UserID == userID && (isRead == nil || n.IsRead == *isRead)
	})
	sort.Slice(result, func(i, j int) bool { return result[i].CreateTime.After(result[j].CreateTime) })
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, id, userID string) error {
	for _, n := range f.items {
		if n.ID.Hex() == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return consts.ErrNotFound
}

type fakeReportCache struct {
	items   map[string]*show.CorrectionReport
	deleted []string
}

func newFakeReportCache() *fakeReportCache {
	return &fakeReportCache{items: map[string]*show.CorrectionReport{}}
}

func (f *fakeReportCache) Get(_ context.Context, id string) (*show.CorrectionReport, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return r, nil
}

func (f *fakeReportCache) Set(_ context.Context, id string, r *show.CorrectionReport) error {
	f.items[id] = r
	return nil
}

func (f *fakeReportCache) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (f *fakeLocker) Lock(_ context.Context, id string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[id] {
		return nil, lock.ErrLocked
	}
	f.held[id] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, id)
	}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*mail.Message
}

func (f *fakeMailer) Dispatch(_ context.Context, msg *mail.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
}

type fakeGateway struct {
	sessionErr error
	event      *gateway.Event
	parseErr   error
	params     *gateway.CheckoutParams
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, p *gateway.CheckoutParams) (*gateway.Session, error) {
	f.params = p
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &gateway.Session{ID: "cs_test", URL: "https://checkout.stripe.com/c/cs_test"}, nil
}

func (f *fakeGateway) ParseWebhook(_ []byte, _ string) (*gateway.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}
