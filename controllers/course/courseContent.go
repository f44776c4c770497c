package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/apperr"
	"coursetrack/middleware"
	"coursetrack/models/course"
	"coursetrack/services/grades"
	courseValidator "coursetrack/validators/course"
)

// courseLesson loads a lesson and checks it belongs to the course in the URL.
func (h *Handler) courseLesson(c *fiber.Ctx, courseID, lessonID uint) (course.Lesson, error) {
	lesson, err := h.backend.GetLesson(c.UserContext(), lessonID)
	if err != nil {
		return course.Lesson{}, err
	}
	if lesson.CourseID != courseID {
		return course.Lesson{}, apperr.NotFound("lesson", lessonID)
	}
	return lesson, nil
}

// MarkLessonComplete marks a lesson complete (or incomplete) for the current student
func (h *Handler) MarkLessonComplete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	courseID, lessonID := param(c, "courseID"), param(c, "lessonID")
	reqData := courseValidator.Validated[courseValidator.MarkLessonRequest](c)

	if err := h.enrolled(c, userID, courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if _, err := h.courseLesson(c, courseID, lessonID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	completed := true
	if reqData != nil && reqData.IsCompleted != nil {
		completed = *reqData.IsCompleted
	}
	if err := h.backend.UpsertLessonProgress(ctx, userID, lessonID, completed); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	p, err := h.progress.Course(ctx, userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	msg := "Lesson marked as complete!"
	if !completed {
		msg = "Lesson marked as incomplete!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, msg, p)
}

// SubmitQuiz records a quiz attempt. Passing the quiz completes the lesson;
// failing never un-completes it.
func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	courseID, lessonID := param(c, "courseID"), param(c, "lessonID")
	reqData := courseValidator.Validated[courseValidator.SubmitQuizRequest](c)

	if err := h.enrolled(c, userID, courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lesson, err := h.courseLesson(c, courseID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if lesson.ContentType != course.ContentQuiz {
		return middleware.ErrorResponse(c, apperr.Field("lesson_id", "Lesson is not a quiz!"))
	}

	percentage := grades.AttemptPercentage(*reqData.Score, *reqData.TotalPoints)
	attempt := course.QuizAttempt{
		StudentID:   userID,
		LessonID:    lessonID,
		Score:       *reqData.Score,
		TotalPoints: *reqData.TotalPoints,
		Passed:      percentage >= lesson.PassingPercentage,
		Answers:     []byte(reqData.Answers),
	}
	if err := h.backend.CreateQuizAttempt(ctx, &attempt); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if attempt.Passed {
		if err := h.backend.UpsertLessonProgress(ctx, userID, lessonID, true); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz submitted successfully!", fiber.Map{
		"attempt":            attempt,
		"percentage":         percentage,
		"passed":             attempt.Passed,
		"passing_percentage": lesson.PassingPercentage,
	})
}
