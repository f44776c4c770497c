package rest

import (
	"context"
	"net/url"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (c *Client) CreateCourse(ctx context.Context, in *course.Course) error {
	if in.Status == "" {
		in.Status = course.CourseDraft
	}
	body, err := c.insert(ctx, "create course", "courses", map[string]any{
		"teacher_id":    in.TeacherID,
		"title":         in.Title,
		"description":   in.Description,
		"status":        in.Status,
		"thumbnail_url": in.ThumbnailURL,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create course", "course", nil, body, courseRow.model)
	if err != nil {
		return err
	}
	*in = created
	return nil
}

func (c *Client) GetCourse(ctx context.Context, id uint) (course.Course, error) {
	body, err := c.list(ctx, "get course", "courses", url.Values{"id": {eq(id)}, "limit": {"1"}})
	if err != nil {
		return course.Course{}, err
	}
	return decodeOne("get course", "course", id, body, courseRow.model)
}

func (c *Client) ListCourses(ctx context.Context, f backend.CourseFilter) ([]course.Course, error) {
	q := url.Values{"order": {"id.asc"}}
	if f.TeacherID != nil {
		q.Set("teacher_id", eq(*f.TeacherID))
	}
	if f.Status != "" {
		q.Set("status", eq(f.Status))
	}
	body, err := c.list(ctx, "list courses", "courses", q)
	if err != nil {
		return nil, err
	}
	return decode("list courses", "course", body, courseRow.model)
}

func (c *Client) SetCourseStatus(ctx context.Context, id uint, status string) error {
	body, err := c.update(ctx, "set course status", "courses", url.Values{"id": {eq(id)}}, map[string]any{
		"status":     status,
		"updated_at": c.now(),
	})
	return touched("set course status", "course", id, body, err)
}

func (c *Client) CreateChapter(ctx context.Context, in *course.Chapter) error {
	body, err := c.insert(ctx, "create chapter", "chapters", map[string]any{
		"course_id":   in.CourseID,
		"title":       in.Title,
		"order_index": in.OrderIndex,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create chapter", "chapter", nil, body, chapterRow.model)
	if err != nil {
		return err
	}
	*in = created
	return nil
}

func (c *Client) GetChapter(ctx context.Context, id uint) (course.Chapter, error) {
	body, err := c.list(ctx, "get chapter", "chapters", url.Values{"id": {eq(id)}, "limit": {"1"}})
	if err != nil {
		return course.Chapter{}, err
	}
	return decodeOne("get chapter", "chapter", id, body, chapterRow.model)
}

func (c *Client) ListChapters(ctx context.Context, courseID uint) ([]course.Chapter, error) {
	body, err := c.list(ctx, "list chapters", "chapters", url.Values{
		"course_id": {eq(courseID)},
		"order":     {"order_index.asc,id.asc"},
	})
	if err != nil {
		return nil, err
	}
	return decode("list chapters", "chapter", body, chapterRow.model)
}

func (c *Client) CreateLesson(ctx context.Context, in *course.Lesson) error {
	if in.PassingPercentage == 0 {
		in.PassingPercentage = course.DefaultPassingPercentage
	}
	body, err := c.insert(ctx, "create lesson", "lessons", map[string]any{
		"course_id":          in.CourseID,
		"chapter_id":         in.ChapterID,
		"title":              in.Title,
		"content_type":       in.ContentType,
		"content_url":        in.ContentURL,
		"order_index":        in.OrderIndex,
		"duration_minutes":   in.DurationMinutes,
		"passing_percentage": in.PassingPercentage,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create lesson", "lesson", nil, body, lessonRow.model)
	if err != nil {
		return err
	}
	*in = created
	return nil
}

func (c *Client) GetLesson(ctx context.Context, id uint) (course.Lesson, error) {
	body, err := c.list(ctx, "get lesson", "lessons", url.Values{"id": {eq(id)}, "limit": {"1"}})
	if err != nil {
		return course.Lesson{}, err
	}
	return decodeOne("get lesson", "lesson", id, body, lessonRow.model)
}

func (c *Client) DeleteLesson(ctx context.Context, id uint) error {
	body, err := c.remove(ctx, "delete lesson", "lessons", url.Values{"id": {eq(id)}})
	return touched("delete lesson", "lesson", id, body, err)
}

func (c *Client) ListLessons(ctx context.Context, courseIDs ...uint) ([]course.Lesson, error) {
	q := url.Values{"order": {"course_id.asc,order_index.asc,id.asc"}}
	if len(courseIDs) > 0 {
		q.Set("course_id", inList(courseIDs))
	}
	body, err := c.list(ctx, "list lessons", "lessons", q)
	if err != nil {
		return nil, err
	}
	return decode("list lessons", "lesson", body, lessonRow.model)
}
