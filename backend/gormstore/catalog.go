package gormstore

import (
	"context"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (s *Store) CreateCourse(ctx context.Context, c *course.Course) error {
	if c.Status == "" {
		c.Status = course.CourseDraft
	}
	return wrap("create course", s.conn(ctx).Create(c).Error)
}

func (s *Store) GetCourse(ctx context.Context, id uint) (course.Course, error) {
	var c course.Course
	err := first(s.conn(ctx).Where("id = ?", id), &c, "course", id)
	return c, err
}

func (s *Store) ListCourses(ctx context.Context, f backend.CourseFilter) ([]course.Course, error) {
	q := s.conn(ctx).Model(&course.Course{})
	if f.TeacherID != nil {
		q = q.Where("teacher_id = ?", *f.TeacherID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var courses []course.Course
	if err := q.Order("id asc").Find(&courses).Error; err != nil {
		return nil, wrap("list courses", err)
	}
	return courses, nil
}

func (s *Store) SetCourseStatus(ctx context.Context, id uint, status string) error {
	res := s.conn(ctx).Model(&course.Course{}).Where("id = ?", id).Update("status", status)
	return affected(res, "set course status", "course", id)
}

func (s *Store) CreateChapter(ctx context.Context, ch *course.Chapter) error {
	return wrap("create chapter", s.conn(ctx).Create(ch).Error)
}

func (s *Store) GetChapter(ctx context.Context, id uint) (course.Chapter, error) {
	var ch course.Chapter
	err := first(s.conn(ctx).Where("id = ?", id), &ch, "chapter", id)
	return ch, err
}

func (s *Store) ListChapters(ctx context.Context, courseID uint) ([]course.Chapter, error) {
	var chapters []course.Chapter
	err := s.conn(ctx).Where("course_id = ?", courseID).Order("order_index asc, id asc").Find(&chapters).Error
	if err != nil {
		return nil, wrap("list chapters", err)
	}
	return chapters, nil
}

func (s *Store) CreateLesson(ctx context.Context, l *course.Lesson) error {
	if l.PassingPercentage == 0 {
		l.PassingPercentage = course.DefaultPassingPercentage
	}
	return wrap("create lesson", s.conn(ctx).Create(l).Error)
}

func (s *Store) GetLesson(ctx context.Context, id uint) (course.Lesson, error) {
	var l course.Lesson
	err := first(s.conn(ctx).Where("id = ?", id), &l, "lesson", id)
	return l, err
}

// DeleteLesson removes the lesson only; progress rows stay and stop counting.
func (s *Store) DeleteLesson(ctx context.Context, id uint) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&course.Lesson{})
	return affected(res, "delete lesson", "lesson", id)
}

func (s *Store) ListLessons(ctx context.Context, courseIDs ...uint) ([]course.Lesson, error) {
	q := s.conn(ctx).Model(&course.Lesson{})
	if len(courseIDs) > 0 {
		q = q.Where("course_id IN ?", courseIDs)
	}
	var lessons []course.Lesson
	if err := q.Order("course_id asc, order_index asc, id asc").Find(&lessons).Error; err != nil {
		return nil, wrap("list lessons", err)
	}
	return lessons, nil
}
