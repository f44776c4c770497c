package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (s *Store) GetLessonProgress(ctx context.Context, studentID uint, courseID *uint) ([]course.LessonProgress, error) {
	return s.ListLessonProgress(ctx, backend.ProgressFilter{StudentID: &studentID, CourseID: courseID})
}

func (s *Store) ListLessonProgress(ctx context.Context, f backend.ProgressFilter) ([]course.LessonProgress, error) {
	q := s.conn(ctx).Model(&course.LessonProgress{}).Select("lesson_progress.*")
	if f.StudentID != nil {
		q = q.Where("lesson_progress.student_id = ?", *f.StudentID)
	}
	if f.CourseID != nil {
		q = q.Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
			Where("lessons.course_id = ?", *f.CourseID)
	}
	var rows []course.LessonProgress
	if err := q.Order("lesson_progress.student_id asc, lesson_progress.lesson_id asc").Find(&rows).Error; err != nil {
		return nil, wrap("list lesson progress", err)
	}
	return rows, nil
}

// keepFirstCompletion preserves the original completed_at when a lesson is
// marked complete again, and clears it when the lesson is marked incomplete.
var keepFirstCompletion = gorm.Expr(
	"CASE WHEN excluded.is_completed THEN COALESCE(lesson_progress.completed_at, excluded.completed_at) ELSE NULL END",
)

func (s *Store) UpsertLessonProgress(ctx context.Context, studentID, lessonID uint, isCompleted bool) error {
	now := time.Now().UTC()
	row := course.LessonProgress{
		StudentID:   studentID,
		LessonID:    lessonID,
		IsCompleted: isCompleted,
		UpdatedAt:   now,
	}
	if isCompleted {
		row.CompletedAt = &now
	}

	updates := clause.AssignmentColumns([]string{"is_completed", "updated_at"})
	updates = append(updates, clause.Assignment{Column: clause.Column{Name: "completed_at"}, Value: keepFirstCompletion})

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: updates,
	}).Create(&row).Error
	return wrap("upsert lesson progress", err)
}
