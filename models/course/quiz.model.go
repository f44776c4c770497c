package course

import (
	"time"

	"gorm.io/datatypes"
)

// QuizAttempt is an append-only record of one quiz submission
type QuizAttempt struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	StudentID   uint           `json:"student_id" gorm:"index;not null"`
	LessonID    uint           `json:"lesson_id" gorm:"index;not null"`
	Score       float64        `json:"score"`
	TotalPoints float64        `json:"total_points"`
	Passed      bool           `json:"passed"`
	Answers     datatypes.JSON `json:"answers"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// QuizResult is a quiz attempt joined with the names a report needs
type QuizResult struct {
	AttemptID    uint      `json:"attempt_id"`
	StudentID    uint      `json:"student_id"`
	StudentName  string    `json:"student_name"`
	StudentEmail string    `json:"student_email"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	ChapterTitle string    `json:"chapter_title"`
	LessonID     uint      `json:"lesson_id"`
	QuizTitle    string    `json:"quiz_title"`
	Score        float64   `json:"score"`
	TotalPoints  float64   `json:"total_points"`
	Passed       bool      `json:"passed"`
	SubmittedAt  time.Time `json:"submitted_at"`
}
