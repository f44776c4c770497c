package rest

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"coursetrack/apperr"
	"coursetrack/models"
	"coursetrack/models/course"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode parses a JSON array of rows into typed records, validates each one
// and converts it to its model. The first bad row fails the whole batch.
func decode[R any, M any](op, entity string, body []byte, convert func(R) M) ([]M, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperr.Backend(op, &apperr.ParseError{Entity: entity, Reason: "expected an array of rows: " + err.Error()})
	}
	out := make([]M, 0, len(raw))
	for _, msg := range raw {
		var row R
		if err := json.Unmarshal(msg, &row); err != nil {
			return nil, apperr.Backend(op, parseError(entity, err))
		}
		if err := validate.Struct(row); err != nil {
			return nil, apperr.Backend(op, parseError(entity, err))
		}
		out = append(out, convert(row))
	}
	return out, nil
}

// decodeOne returns the first decoded row, or NotFound when there is none.
func decodeOne[R any, M any](op, entity string, id any, body []byte, convert func(R) M) (M, error) {
	var zero M
	rows, err := decode(op, entity, body, convert)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, apperr.NotFound(entity, id)
	}
	return rows[0], nil
}

func parseError(entity string, err error) *apperr.ParseError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &apperr.ParseError{Entity: entity, Field: typeErr.Field, Reason: "expected " + typeErr.Type.String() + ", got " + typeErr.Value}
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &apperr.ParseError{Entity: entity, Field: fe.Field(), Reason: "failed " + fe.Tag()}
	}
	return &apperr.ParseError{Entity: entity, Reason: err.Error()}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func str(p *string) string { return deref(p) }

type courseRow struct {
	ID           *uint      `json:"id" validate:"required"`
	TeacherID    *uint      `json:"teacher_id" validate:"required"`
	Title        *string    `json:"title" validate:"required"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status" validate:"required,oneof=draft pending approved rejected"`
	ThumbnailURL *string    `json:"thumbnail_url"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (r courseRow) model() course.Course {
	return course.Course{
		ID:           *r.ID,
		TeacherID:    *r.TeacherID,
		Title:        *r.Title,
		Description:  str(r.Description),
		Status:       *r.Status,
		ThumbnailURL: str(r.ThumbnailURL),
		CreatedAt:    deref(r.CreatedAt),
		UpdatedAt:    deref(r.UpdatedAt),
	}
}

type chapterRow struct {
	ID         *uint      `json:"id" validate:"required"`
	CourseID   *uint      `json:"course_id" validate:"required"`
	Title      *string    `json:"title" validate:"required"`
	OrderIndex int        `json:"order_index"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (r chapterRow) model() course.Chapter {
	return course.Chapter{
		ID:         *r.ID,
		CourseID:   *r.CourseID,
		Title:      *r.Title,
		OrderIndex: r.OrderIndex,
		CreatedAt:  deref(r.CreatedAt),
		UpdatedAt:  deref(r.UpdatedAt),
	}
}

type lessonRow struct {
	ID                *uint      `json:"id" validate:"required"`
	CourseID          *uint      `json:"course_id" validate:"required"`
	ChapterID         *uint      `json:"chapter_id" validate:"required"`
	Title             *string    `json:"title" validate:"required"`
	ContentType       *string    `json:"content_type" validate:"required,oneof=video pdf document url quiz assignment"`
	ContentURL        *string    `json:"content_url"`
	OrderIndex        int        `json:"order_index"`
	DurationMinutes   *int       `json:"duration_minutes" validate:"omitempty,min=0"`
	PassingPercentage *int       `json:"passing_percentage" validate:"omitempty,min=0,max=100"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

func (r lessonRow) model() course.Lesson {
	passing := course.DefaultPassingPercentage
	if r.PassingPercentage != nil {
		passing = *r.PassingPercentage
	}
	return course.Lesson{
		ID:                *r.ID,
		CourseID:          *r.CourseID,
		ChapterID:         *r.ChapterID,
		Title:             *r.Title,
		ContentType:       *r.ContentType,
		ContentURL:        str(r.ContentURL),
		OrderIndex:        r.OrderIndex,
		DurationMinutes:   r.DurationMinutes,
		PassingPercentage: passing,
		CreatedAt:         deref(r.CreatedAt),
		UpdatedAt:         deref(r.UpdatedAt),
	}
}

type enrollmentRow struct {
	ID         *uint      `json:"id" validate:"required"`
	StudentID  *uint      `json:"student_id" validate:"required"`
	CourseID   *uint      `json:"course_id" validate:"required"`
	CohortName *string    `json:"cohort_name"`
	EnrolledAt *time.Time `json:"enrolled_at" validate:"required"`
}

func (r enrollmentRow) model() course.Enrollment {
	return course.Enrollment{
		ID:         *r.ID,
		StudentID:  *r.StudentID,
		CourseID:   *r.CourseID,
		CohortName: r.CohortName,
		EnrolledAt: *r.EnrolledAt,
	}
}

type cohortRequestRow struct {
	ID         *uint      `json:"id" validate:"required"`
	StudentID  *uint      `json:"student_id" validate:"required"`
	CourseID   *uint      `json:"course_id" validate:"required"`
	CohortName *string    `json:"cohort_name" validate:"required"`
	Status     *string    `json:"status" validate:"required,oneof=pending approved rejected"`
	Reason     *string    `json:"reason"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (r cohortRequestRow) model() course.CohortJoinRequest {
	return course.CohortJoinRequest{
		ID:         *r.ID,
		StudentID:  *r.StudentID,
		CourseID:   *r.CourseID,
		CohortName: *r.CohortName,
		Status:     *r.Status,
		Reason:     str(r.Reason),
		CreatedAt:  deref(r.CreatedAt),
		UpdatedAt:  deref(r.UpdatedAt),
	}
}

type progressRow struct {
	ID          *uint      `json:"id" validate:"required"`
	StudentID   *uint      `json:"student_id" validate:"required"`
	LessonID    *uint      `json:"lesson_id" validate:"required"`
	IsCompleted *bool      `json:"is_completed" validate:"required"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (r progressRow) model() course.LessonProgress {
	return course.LessonProgress{
		ID:          *r.ID,
		StudentID:   *r.StudentID,
		LessonID:    *r.LessonID,
		IsCompleted: *r.IsCompleted,
		CompletedAt: r.CompletedAt,
		UpdatedAt:   deref(r.UpdatedAt),
	}
}

type attemptRow struct {
	ID          *uint           `json:"id" validate:"required"`
	StudentID   *uint           `json:"student_id" validate:"required"`
	LessonID    *uint           `json:"lesson_id" validate:"required"`
	Score       *float64        `json:"score" validate:"required,min=0"`
	TotalPoints *float64        `json:"total_points" validate:"required,min=0"`
	Passed      *bool           `json:"passed" validate:"required"`
	Answers     json.RawMessage `json:"answers"`
	SubmittedAt *time.Time      `json:"submitted_at" validate:"required"`
}

func (r attemptRow) model() course.QuizAttempt {
	return course.QuizAttempt{
		ID:          *r.ID,
		StudentID:   *r.StudentID,
		LessonID:    *r.LessonID,
		Score:       *r.Score,
		TotalPoints: *r.TotalPoints,
		Passed:      *r.Passed,
		Answers:     []byte(r.Answers),
		SubmittedAt: *r.SubmittedAt,
	}
}

type quizResultRow struct {
	AttemptID    *uint      `json:"attempt_id" validate:"required"`
	StudentID    *uint      `json:"student_id" validate:"required"`
	StudentName  *string    `json:"student_name"`
	StudentEmail *string    `json:"student_email"`
	CourseID     *uint      `json:"course_id" validate:"required"`
	CourseTitle  *string    `json:"course_title" validate:"required"`
	ChapterTitle *string    `json:"chapter_title"`
	LessonID     *uint      `json:"lesson_id" validate:"required"`
	QuizTitle    *string    `json:"quiz_title" validate:"required"`
	Score        *float64   `json:"score" validate:"required"`
	TotalPoints  *float64   `json:"total_points" validate:"required"`
	Passed       *bool      `json:"passed" validate:"required"`
	SubmittedAt  *time.Time `json:"submitted_at" validate:"required"`
}

func (r quizResultRow) model() course.QuizResult {
	return course.QuizResult{
		AttemptID:    *r.AttemptID,
		StudentID:    *r.StudentID,
		StudentName:  str(r.StudentName),
		StudentEmail: str(r.StudentEmail),
		CourseID:     *r.CourseID,
		CourseTitle:  *r.CourseTitle,
		ChapterTitle: str(r.ChapterTitle),
		LessonID:     *r.LessonID,
		QuizTitle:    *r.QuizTitle,
		Score:        *r.Score,
		TotalPoints:  *r.TotalPoints,
		Passed:       *r.Passed,
		SubmittedAt:  *r.SubmittedAt,
	}
}

type completionRow struct {
	StudentID         *uint      `json:"student_id" validate:"required"`
	CourseID          *uint      `json:"course_id" validate:"required"`
	Completed         *bool      `json:"completed" validate:"required"`
	CompletionDate    *time.Time `json:"completion_date"`
	CertificateStatus *string    `json:"certificate_status" validate:"omitempty,oneof=pending approved rejected"`
	CertificateURL    *string    `json:"certificate_url"`
}

func (r completionRow) model() course.CourseCompletion {
	return course.CourseCompletion{
		StudentID:         *r.StudentID,
		CourseID:          *r.CourseID,
		Completed:         *r.Completed,
		CompletionDate:    r.CompletionDate,
		CertificateStatus: r.CertificateStatus,
		CertificateURL:    r.CertificateURL,
	}
}

type certificateRow struct {
	ID                *uint      `json:"id" validate:"required"`
	StudentID         *uint      `json:"student_id" validate:"required"`
	CourseID          *uint      `json:"course_id" validate:"required"`
	CertificateNumber *string    `json:"certificate_number"`
	Status            *string    `json:"status" validate:"required,oneof=pending approved rejected"`
	CertificateURL    *string    `json:"certificate_url"`
	ApprovedAt        *time.Time `json:"approved_at"`
	ApprovedBy        *uint      `json:"approved_by"`
	Notes             *string    `json:"notes"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

func (r certificateRow) model() course.Certificate {
	return course.Certificate{
		ID:                *r.ID,
		StudentID:         *r.StudentID,
		CourseID:          *r.CourseID,
		CertificateNumber: str(r.CertificateNumber),
		Status:            *r.Status,
		CertificateURL:    str(r.CertificateURL),
		ApprovedAt:        r.ApprovedAt,
		ApprovedBy:        r.ApprovedBy,
		Notes:             str(r.Notes),
		CreatedAt:         deref(r.CreatedAt),
		UpdatedAt:         deref(r.UpdatedAt),
	}
}

type userRow struct {
	ID           *uint      `json:"id" validate:"required"`
	Name         *string    `json:"name"`
	Email        *string    `json:"email" validate:"required"`
	Role         *string    `json:"role" validate:"required,oneof=student teacher admin"`
	LastActiveAt *time.Time `json:"last_active_at"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func (r userRow) model() models.User {
	return models.User{
		ID:           *r.ID,
		Name:         str(r.Name),
		Email:        *r.Email,
		Role:         *r.Role,
		LastActiveAt: r.LastActiveAt,
		CreatedAt:    deref(r.CreatedAt),
		UpdatedAt:    deref(r.UpdatedAt),
	}
}
