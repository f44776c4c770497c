// Package certificate decides when a student has finished a course and gates
// certificate issuance on that decision.
package certificate

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/services/progress"
)

type State string

const (
	NotStarted          State = "not_started"
	InProgress          State = "in_progress"
	Completed           State = "completed"
	CertificateApproved State = "certificate_approved"
)

// Evaluate places one enrollment on the certificate state machine.
// An approved certificate stays approved even if lessons are added later.
func Evaluate(p progress.CourseProgress, cert *course.Certificate) State {
	switch {
	case cert != nil && cert.Status == course.CertificateApproved:
		return CertificateApproved
	case p.IsComplete():
		return Completed
	case p.CompletedLessons > 0:
		return InProgress
	default:
		return NotStarted
	}
}

// Store is the slice of the backend the evaluator needs.
type Store interface {
	progress.Store
	GetCourseCompletions(ctx context.Context) ([]course.CourseCompletion, error)
	GetCertificate(ctx context.Context, studentID, courseID uint) (course.Certificate, error)
	CreateCertificate(ctx context.Context, c *course.Certificate) error
	ApproveCertificate(ctx context.Context, in backend.Approval) (course.Certificate, error)
	RejectCertificate(ctx context.Context, studentID, courseID uint, reason string) error
	GetUser(ctx context.Context, id uint) (models.User, error)
	GetCourse(ctx context.Context, id uint) (course.Course, error)
}

// Notifier tells a student their certificate was approved.
type Notifier interface {
	CertificateApproved(ctx context.Context, student models.User, c course.Course, cert course.Certificate) error
}

type Service struct {
	store     Store
	progress  *progress.Service
	notifier  Notifier
	log       *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
	newNumber func() string
}

// NewService wires the evaluator. notifier may be nil.
func NewService(store Store, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		progress:  progress.NewService(store),
		notifier:  notifier,
		log:       log,
		validate:  validator.New(),
		now:       func() time.Time { return time.Now().UTC() },
		newNumber: NewNumber,
	}
}

// NewNumber returns a fresh certificate number.
func NewNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CERT-" + strings.ToUpper(id[:12])
}

// Eligibility is the evaluated state of one enrollment.
type Eligibility struct {
	State       State                   `json:"state"`
	Progress    progress.CourseProgress `json:"progress"`
	Certificate *course.Certificate     `json:"certificate"`
}

// Evaluate reads current data and never writes.
func (s *Service) Evaluate(ctx context.Context, studentID, courseID uint) (Eligibility, error) {
	p, err := s.progress.Course(ctx, studentID, courseID)
	if err != nil {
		return Eligibility{}, err
	}
	cert, err := s.certificate(ctx, studentID, courseID)
	if err != nil {
		return Eligibility{}, err
	}
	return Eligibility{State: Evaluate(p, cert), Progress: p, Certificate: cert}, nil
}

// certificate returns nil when the pair has no certificate.
func (s *Service) certificate(ctx context.Context, studentID, courseID uint) (*course.Certificate, error) {
	cert, err := s.store.GetCertificate(ctx, studentID, courseID)
	if apperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

type ApproveInput struct {
	StudentID      uint
	CourseID       uint
	CertificateURL string
	Notes          string
	ApprovedBy     uint
}

// ValidateURL accepts absolute http and https URLs only.
func (s *Service) ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return apperr.Field("certificate_url", "certificate_url is required")
	}
	if err := s.validate.Var(raw, "url"); err != nil {
		return apperr.Field("certificate_url", "certificate_url must be an absolute http(s) URL")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Field("certificate_url", "certificate_url must be an absolute http(s) URL")
	}
	return nil
}

// Approve issues the certificate after re-checking completion against fresh
// data. The URL is validated before anything is read.
func (s *Service) Approve(ctx context.Context, in ApproveInput) (course.Certificate, error) {
	if err := s.ValidateURL(in.CertificateURL); err != nil {
		return course.Certificate{}, err
	}

	p, err := s.progress.Course(ctx, in.StudentID, in.CourseID)
	if err != nil {
		return course.Certificate{}, err
	}
	if !p.IsComplete() {
		return course.Certificate{}, apperr.NewValidationError(
			"course is not complete",
			apperr.FieldError{Field: "progress", Error: fmt.Sprintf("%d of %d lessons completed (%d%%)", p.CompletedLessons, p.TotalLessons, p.ProgressPercentage)},
		)
	}

	cert, err := s.store.ApproveCertificate(ctx, backend.Approval{
		StudentID:      in.StudentID,
		CourseID:       in.CourseID,
		CertificateURL: strings.TrimSpace(in.CertificateURL),
		Notes:          in.Notes,
		ApprovedBy:     in.ApprovedBy,
		Number:         s.newNumber(),
		At:             s.now(),
	})
	if err != nil {
		return course.Certificate{}, err
	}

	s.notify(ctx, cert)
	return cert, nil
}

// notify never fails the approval; delivery problems are logged.
func (s *Service) notify(ctx context.Context, cert course.Certificate) {
	if s.notifier == nil {
		return
	}
	student, err := s.store.GetUser(ctx, cert.StudentID)
	if err != nil {
		s.log.Warn("certificate notification skipped", zap.Uint("student_id", cert.StudentID), zap.Error(err))
		return
	}
	c, err := s.store.GetCourse(ctx, cert.CourseID)
	if err != nil {
		s.log.Warn("certificate notification skipped", zap.Uint("course_id", cert.CourseID), zap.Error(err))
		return
	}
	if err := s.notifier.CertificateApproved(ctx, student, c, cert); err != nil {
		s.log.Error("error sending certificate notification", zap.Uint("student_id", cert.StudentID), zap.Error(err))
	}
}

type RejectInput struct {
	StudentID uint
	CourseID  uint
	Reason    string
}

func (s *Service) Reject(ctx context.Context, in RejectInput) error {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return apperr.Field("reason", "reason is required")
	}
	cert, err := s.store.GetCertificate(ctx, in.StudentID, in.CourseID)
	if err != nil {
		return err
	}
	if cert.Status == course.CertificateApproved {
		return apperr.Conflict("certificate %s is already approved", cert.CertificateNumber)
	}
	return s.store.RejectCertificate(ctx, in.StudentID, in.CourseID, reason)
}

// Request records a pending certificate for a completed course. Repeating it
// returns the existing pending certificate.
func (s *Service) Request(ctx context.Context, studentID, courseID uint) (course.Certificate, error) {
	p, err := s.progress.Course(ctx, studentID, courseID)
	if err != nil {
		return course.Certificate{}, err
	}
	if !p.IsComplete() {
		return course.Certificate{}, apperr.Field("progress", fmt.Sprintf("course is %d%% complete", p.ProgressPercentage))
	}

	existing, err := s.certificate(ctx, studentID, courseID)
	if err != nil {
		return course.Certificate{}, err
	}
	if existing != nil {
		switch existing.Status {
		case course.CertificateApproved:
			return course.Certificate{}, apperr.Conflict("certificate is already approved")
		case course.CertificateRejected:
			return course.Certificate{}, apperr.Conflict("certificate request was rejected: %s", existing.Notes)
		}
		return *existing, nil
	}

	cert := course.Certificate{
		StudentID:         studentID,
		CourseID:          courseID,
		CertificateNumber: s.newNumber(),
		Status:            course.CertificatePending,
	}
	if err := s.store.CreateCertificate(ctx, &cert); err != nil {
		return course.Certificate{}, err
	}
	return cert, nil
}

// Sweep creates pending certificates for completed enrollments that have
// none yet and returns how many it created.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	rows, err := s.store.GetCourseCompletions(ctx)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, r := range rows {
		if !r.Completed || r.CertificateStatus != nil {
			continue
		}
		cert := course.Certificate{
			StudentID:         r.StudentID,
			CourseID:          r.CourseID,
			CertificateNumber: s.newNumber(),
			Status:            course.CertificatePending,
		}
		err := s.store.CreateCertificate(ctx, &cert)
		switch {
		case apperr.IsConflict(err):
			continue
		case err != nil:
			return created, err
		}
		created++
	}
	if created > 0 {
		s.log.Info("certificate sweep", zap.Int("created", created))
	}
	return created, nil
}
