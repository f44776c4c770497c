// Package backend declares the data boundary every service and controller is
// built on. Implementations live in gormstore (SQL database) and rest
// (PostgREST-compatible managed backend).
package backend

import (
	"context"
	"time"

	"coursetrack/models"
	"coursetrack/models/course"
)

// CourseFilter narrows ListCourses. Zero values match everything.
type CourseFilter struct {
	TeacherID *uint
	Status    string
}

type EnrollmentFilter struct {
	StudentID *uint
	CourseID  *uint
}

type ProgressFilter struct {
	StudentID *uint
	CourseID  *uint
}

// AttemptFilter scopes quiz attempts to a teacher's courses or one student.
type AttemptFilter struct {
	TeacherID *uint
	StudentID *uint
}

type CohortRequestFilter struct {
	CourseID *uint
	Status   string
}

type CertificateFilter struct {
	StudentID *uint
	Status    string
}

type Catalog interface {
	CreateCourse(ctx context.Context, c *course.Course) error
	GetCourse(ctx context.Context, id uint) (course.Course, error)
	ListCourses(ctx context.Context, f CourseFilter) ([]course.Course, error)
	SetCourseStatus(ctx context.Context, id uint, status string) error
	CreateChapter(ctx context.Context, ch *course.Chapter) error
	GetChapter(ctx context.Context, id uint) (course.Chapter, error)
	ListChapters(ctx context.Context, courseID uint) ([]course.Chapter, error)
	CreateLesson(ctx context.Context, l *course.Lesson) error
	GetLesson(ctx context.Context, id uint) (course.Lesson, error)
	DeleteLesson(ctx context.Context, id uint) error
	// ListLessons returns the lessons of the given courses, or of every course when none is given.
	ListLessons(ctx context.Context, courseIDs ...uint) ([]course.Lesson, error)
}

type Enrollments interface {
	CreateEnrollment(ctx context.Context, e *course.Enrollment) error
	ListEnrollments(ctx context.Context, f EnrollmentFilter) ([]course.Enrollment, error)
	SetEnrollmentCohort(ctx context.Context, studentID, courseID uint, cohort *string) error
	CreateCohortRequest(ctx context.Context, r *course.CohortJoinRequest) error
	GetCohortRequest(ctx context.Context, id uint) (course.CohortJoinRequest, error)
	ListCohortRequests(ctx context.Context, f CohortRequestFilter) ([]course.CohortJoinRequest, error)
	SetCohortRequestStatus(ctx context.Context, id uint, status, reason string) error
	// ApproveCohortRequest approves a pending request and moves the
	// enrollment into its cohort in one unit; neither write lands alone.
	ApproveCohortRequest(ctx context.Context, id uint) error
}

type Progress interface {
	// GetLessonProgress returns one student's rows, optionally limited to a course.
	GetLessonProgress(ctx context.Context, studentID uint, courseID *uint) ([]course.LessonProgress, error)
	ListLessonProgress(ctx context.Context, f ProgressFilter) ([]course.LessonProgress, error)
	// UpsertLessonProgress is idempotent on (studentID, lessonID).
	UpsertLessonProgress(ctx context.Context, studentID, lessonID uint, isCompleted bool) error
}

type Attempts interface {
	CreateQuizAttempt(ctx context.Context, a *course.QuizAttempt) error
	GetQuizAttempts(ctx context.Context, f AttemptFilter) ([]course.QuizResult, error)
}

type Certificates interface {
	GetCourseCompletions(ctx context.Context) ([]course.CourseCompletion, error)
	GetCertificate(ctx context.Context, studentID, courseID uint) (course.Certificate, error)
	ListCertificates(ctx context.Context, f CertificateFilter) ([]course.Certificate, error)
	CreateCertificate(ctx context.Context, c *course.Certificate) error
	ApproveCertificate(ctx context.Context, in Approval) (course.Certificate, error)
	RejectCertificate(ctx context.Context, studentID, courseID uint, reason string) error
}

type Users interface {
	GetUser(ctx context.Context, id uint) (models.User, error)
	ListUsers(ctx context.Context, ids ...uint) ([]models.User, error)
	TouchUser(ctx context.Context, id uint, at time.Time) error
}

// Backend is the complete handle injected at construction time.
type Backend interface {
	Catalog
	Enrollments
	Progress
	Attempts
	Certificates
	Users
	Close() error
}

// Approval carries an administrator's approval of a completed enrollment.
type Approval struct {
	StudentID      uint
	CourseID       uint
	CertificateURL string
	Notes          string
	ApprovedBy     uint
	Number         string
	At             time.Time
}
