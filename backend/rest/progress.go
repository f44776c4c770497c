package rest

import (
	"context"
	"net/url"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (c *Client) GetLessonProgress(ctx context.Context, studentID uint, courseID *uint) ([]course.LessonProgress, error) {
	return c.ListLessonProgress(ctx, backend.ProgressFilter{StudentID: &studentID, CourseID: courseID})
}

// ListLessonProgress filters by course through an inner embed of lessons.
func (c *Client) ListLessonProgress(ctx context.Context, f backend.ProgressFilter) ([]course.LessonProgress, error) {
	q := url.Values{"order": {"student_id.asc,lesson_id.asc"}}
	if f.StudentID != nil {
		q.Set("student_id", eq(*f.StudentID))
	}
	if f.CourseID != nil {
		q.Set("select", "*,lessons!inner(course_id)")
		q.Set("lessons.course_id", eq(*f.CourseID))
	}
	body, err := c.list(ctx, "list lesson progress", "lesson_progress", q)
	if err != nil {
		return nil, err
	}
	return decode("list lesson progress", "lesson progress", body, progressRow.model)
}

// UpsertLessonProgress keeps the first completed_at of a lesson completed
// more than once.
func (c *Client) UpsertLessonProgress(ctx context.Context, studentID, lessonID uint, isCompleted bool) error {
	const op = "upsert lesson progress"
	now := c.now()

	var completedAt any
	if isCompleted {
		completedAt = now
		body, err := c.list(ctx, op, "lesson_progress", url.Values{
			"student_id": {eq(studentID)},
			"lesson_id":  {eq(lessonID)},
			"limit":      {"1"},
		})
		if err != nil {
			return err
		}
		existing, err := decode(op, "lesson progress", body, progressRow.model)
		if err != nil {
			return err
		}
		if len(existing) > 0 && existing[0].IsCompleted && existing[0].CompletedAt != nil {
			completedAt = *existing[0].CompletedAt
		}
	}

	body, err := c.upsert(ctx, op, "lesson_progress", "student_id,lesson_id", map[string]any{
		"student_id":   studentID,
		"lesson_id":    lessonID,
		"is_completed": isCompleted,
		"completed_at": completedAt,
		"updated_at":   now,
	})
	if err != nil {
		return err
	}
	_, err = decode(op, "lesson progress", body, progressRow.model)
	return err
}

func (c *Client) CreateQuizAttempt(ctx context.Context, a *course.QuizAttempt) error {
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = c.now()
	}
	answers := a.Answers
	if len(answers) == 0 {
		answers = []byte("null")
	}
	body, err := c.insert(ctx, "create quiz attempt", "quiz_attempts", map[string]any{
		"student_id":   a.StudentID,
		"lesson_id":    a.LessonID,
		"score":        a.Score,
		"total_points": a.TotalPoints,
		"passed":       a.Passed,
		"answers":      answers,
		"submitted_at": a.SubmittedAt,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create quiz attempt", "quiz attempt", nil, body, attemptRow.model)
	if err != nil {
		return err
	}
	*a = created
	return nil
}

// GetQuizAttempts calls the get_quiz_attempts function, which performs the
// joins and the scoping server side.
func (c *Client) GetQuizAttempts(ctx context.Context, f backend.AttemptFilter) ([]course.QuizResult, error) {
	body, err := c.rpc(ctx, "get quiz attempts", "get_quiz_attempts", map[string]any{
		"p_teacher_id": f.TeacherID,
		"p_student_id": f.StudentID,
	})
	if err != nil {
		return nil, err
	}
	return decode("get quiz attempts", "quiz result", body, quizResultRow.model)
}
