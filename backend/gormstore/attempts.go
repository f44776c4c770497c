package gormstore

import (
	"context"
	"time"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (s *Store) CreateQuizAttempt(ctx context.Context, a *course.QuizAttempt) error {
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	return wrap("create quiz attempt", s.conn(ctx).Create(a).Error)
}

const quizResultColumns = `qa.id AS attempt_id,
	qa.student_id AS student_id,
	COALESCE(u.name, '') AS student_name,
	COALESCE(u.email, '') AS student_email,
	l.course_id AS course_id,
	c.title AS course_title,
	COALESCE(ch.title, '') AS chapter_title,
	qa.lesson_id AS lesson_id,
	l.title AS quiz_title,
	qa.score AS score,
	qa.total_points AS total_points,
	qa.passed AS passed,
	qa.submitted_at AS submitted_at`

// GetQuizAttempts returns joined rows, newest first.
func (s *Store) GetQuizAttempts(ctx context.Context, f backend.AttemptFilter) ([]course.QuizResult, error) {
	q := s.conn(ctx).Table("quiz_attempts AS qa").
		Select(quizResultColumns).
		Joins("JOIN lessons l ON l.id = qa.lesson_id").
		Joins("JOIN courses c ON c.id = l.course_id").
		Joins("LEFT JOIN chapters ch ON ch.id = l.chapter_id").
		Joins("LEFT JOIN users u ON u.id = qa.student_id")
	if f.TeacherID != nil {
		q = q.Where("c.teacher_id = ?", *f.TeacherID)
	}
	if f.StudentID != nil {
		q = q.Where("qa.student_id = ?", *f.StudentID)
	}
	rows := []course.QuizResult{}
	if err := q.Order("qa.submitted_at desc, qa.id desc").Scan(&rows).Error; err != nil {
		return nil, wrap("get quiz attempts", err)
	}
	return rows, nil
}
