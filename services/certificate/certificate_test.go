package certificate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"coursetrack/apperr"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/services/progress"
	"coursetrack/testutil"
)

type sentMail struct {
	student models.User
	course  course.Course
	cert    course.Certificate
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (f *fakeNotifier) CertificateApproved(_ context.Context, student models.User, c course.Course, cert course.Certificate) error {
	f.sent = append(f.sent, sentMail{student: student, course: c, cert: cert})
	return f.err
}

// unreachable panics on any call, proving validation happens first.
type unreachable struct{ Store }

func TestEvaluateStates(t *testing.T) {
	approved := &course.Certificate{Status: course.CertificateApproved}
	pending := &course.Certificate{Status: course.CertificatePending}

	tests := []struct {
		name string
		p    progress.CourseProgress
		cert *course.Certificate
		want State
	}{
		{"no lessons", progress.CourseProgress{}, nil, NotStarted},
		{"nothing done", progress.CourseProgress{TotalLessons: 5}, nil, NotStarted},
		{"some done", progress.CourseProgress{TotalLessons: 5, CompletedLessons: 3}, nil, InProgress},
		{"all done", progress.CourseProgress{TotalLessons: 5, CompletedLessons: 5}, nil, Completed},
		{"all done pending", progress.CourseProgress{TotalLessons: 5, CompletedLessons: 5}, pending, Completed},
		{"approved", progress.CourseProgress{TotalLessons: 5, CompletedLessons: 5}, approved, CertificateApproved},
		{"approved then lessons added", progress.CourseProgress{TotalLessons: 6, CompletedLessons: 5}, approved, CertificateApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.p, tt.cert))
		})
	}
}

func TestApproveRejectsBadURLBeforeBackend(t *testing.T) {
	svc := NewService(unreachable{}, nil, zap.NewNop())

	for _, u := range []string{"", "   ", "not a url", "/relative/path", "ftp://cert.example/x", "mailto:ana@example.com"} {
		_, err := svc.Approve(context.Background(), ApproveInput{StudentID: 1, CourseID: 1, CertificateURL: u})
		require.Error(t, err, u)
		assert.True(t, apperr.IsValidation(err), "%q: %v", u, err)
	}
}

func TestApproveLifecycle(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	testutil.User(t, s, 7, models.RoleStudent)
	c := testutil.SeedCourse(t, s, 1, "Go", 5)
	testutil.Enroll(t, s, 7, c.Course.ID)

	notifier := &fakeNotifier{}
	svc := NewService(s, notifier, zap.NewNop())

	testutil.Complete(t, s, 7, c.Lessons[:3]...)
	got, err := svc.Evaluate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, got.Progress.ProgressPercentage)
	assert.Equal(t, InProgress, got.State)

	_, err = svc.Approve(ctx, ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x", ApprovedBy: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	testutil.Complete(t, s, 7, c.Lessons[3:]...)
	got, err = svc.Evaluate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress.ProgressPercentage)
	assert.Equal(t, Completed, got.State)

	_, err = svc.Approve(ctx, ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "", ApprovedBy: 1})
	assert.True(t, apperr.IsValidation(err))

	cert, err := svc.Approve(ctx, ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x", ApprovedBy: 1})
	require.NoError(t, err)
	assert.Equal(t, course.CertificateApproved, cert.Status)
	assert.Equal(t, "https://cert.example/x", cert.CertificateURL)
	assert.NotEmpty(t, cert.CertificateNumber)

	got, err = svc.Evaluate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, CertificateApproved, got.State)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "user7@example.com", notifier.sent[0].student.Email)
	assert.Equal(t, "Go", notifier.sent[0].course.Title)
}

func TestApproveNotEnrolled(t *testing.T) {
	s := testutil.NewStore(t)
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	svc := NewService(s, nil, zap.NewNop())

	_, err := svc.Approve(context.Background(), ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestNotifierFailureDoesNotFailApproval(t *testing.T) {
	s := testutil.NewStore(t)
	testutil.User(t, s, 7, models.RoleStudent)
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	testutil.Enroll(t, s, 7, c.Course.ID)
	testutil.Complete(t, s, 7, c.Lessons...)

	svc := NewService(s, &fakeNotifier{err: errors.New("smtp down")}, zap.NewNop())
	cert, err := svc.Approve(context.Background(), ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x"})
	require.NoError(t, err)
	assert.Equal(t, course.CertificateApproved, cert.Status)
}

func TestReject(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	testutil.Enroll(t, s, 7, c.Course.ID)
	testutil.Complete(t, s, 7, c.Lessons...)
	svc := NewService(s, nil, zap.NewNop())

	err := svc.Reject(ctx, RejectInput{StudentID: 7, CourseID: c.Course.ID, Reason: " "})
	assert.True(t, apperr.IsValidation(err))

	err = svc.Reject(ctx, RejectInput{StudentID: 7, CourseID: c.Course.ID, Reason: "plagiarism"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Request(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, RejectInput{StudentID: 7, CourseID: c.Course.ID, Reason: "plagiarism"}))

	_, err = svc.Request(ctx, 7, c.Course.ID)
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.Approve(ctx, ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x"})
	require.NoError(t, err)
	err = svc.Reject(ctx, RejectInput{StudentID: 7, CourseID: c.Course.ID, Reason: "changed my mind"})
	assert.True(t, apperr.IsConflict(err))
}

func TestRequestIsIdempotent(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 2)
	testutil.Enroll(t, s, 7, c.Course.ID)
	svc := NewService(s, nil, zap.NewNop())

	testutil.Complete(t, s, 7, c.Lessons[0])
	_, err := svc.Request(ctx, 7, c.Course.ID)
	assert.True(t, apperr.IsValidation(err))

	testutil.Complete(t, s, 7, c.Lessons[1])
	first, err := svc.Request(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.CertificatePending, first.Status)

	second, err := svc.Request(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)
}

func TestSweepCreatesPendingOnce(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 2)
	testutil.Enroll(t, s, 7, c.Course.ID)
	testutil.Enroll(t, s, 8, c.Course.ID)
	testutil.Complete(t, s, 7, c.Lessons...)
	testutil.Complete(t, s, 8, c.Lessons[0])

	svc := NewService(s, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	cert, err := s.GetCertificate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.CertificatePending, cert.Status)

	_, err = s.GetCertificate(ctx, 8, c.Course.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeletedLessonDoesNotRevokeApproval(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 2)
	testutil.Enroll(t, s, 7, c.Course.ID)
	testutil.Complete(t, s, 7, c.Lessons[0])
	svc := NewService(s, nil, zap.NewNop())

	require.NoError(t, s.DeleteLesson(ctx, c.Lessons[1].ID))
	got, err := svc.Evaluate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, Completed, got.State)

	_, err = svc.Approve(ctx, ApproveInput{StudentID: 7, CourseID: c.Course.ID, CertificateURL: "https://cert.example/x"})
	require.NoError(t, err)

	testutil.Quiz(t, s, c, "Final quiz", 70)
	got, err = svc.Evaluate(ctx, 7, c.Course.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Progress.ProgressPercentage)
	assert.Equal(t, CertificateApproved, got.State)
}
