package course

import "time"

const (
	ContentVideo      = "video"
	ContentPDF        = "pdf"
	ContentDocument   = "document"
	ContentURL        = "url"
	ContentQuiz       = "quiz"
	ContentAssignment = "assignment"
)

// ContentTypes lists every accepted Lesson.ContentType
var ContentTypes = []string{ContentVideo, ContentPDF, ContentDocument, ContentURL, ContentQuiz, ContentAssignment}

// DefaultPassingPercentage applies to quizzes created without an explicit threshold
const DefaultPassingPercentage = 50

// Lesson is one unit of content inside a chapter
type Lesson struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	ChapterID         uint      `json:"chapter_id" gorm:"index;not null"`
	Title             string    `json:"title" gorm:"not null"`
	ContentType       string    `json:"content_type" gorm:"not null"` // video, pdf, document, url, quiz, assignment
	ContentURL        string    `json:"content_url"`
	OrderIndex        int       `json:"order_index" gorm:"default:0"`
	DurationMinutes   *int      `json:"duration_minutes"`
	PassingPercentage int       `json:"passing_percentage" gorm:"default:50"` // quizzes only
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// LessonProgress marks a student's completion of one lesson; one row per (student, lesson)
type LessonProgress struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	StudentID   uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_progress_student_lesson"`
	LessonID    uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_student_lesson;index"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
