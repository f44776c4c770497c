package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/apperr"
	"coursetrack/middleware"
	"coursetrack/models/course"
	courseValidator "coursetrack/validators/course"
)

// CreateCourse creates a draft course owned by the current teacher
func (h *Handler) CreateCourse(c *fiber.Ctx) error {
	reqData := courseValidator.Validated[courseValidator.CreateCourseRequest](c)

	crs := course.Course{
		TeacherID:    middleware.UserID(c),
		Title:        reqData.Title,
		Description:  reqData.Description,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       course.CourseDraft,
	}
	if err := h.backend.CreateCourse(c.UserContext(), &crs); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// SubmitCourse sends a draft or rejected course for admin approval
func (h *Handler) SubmitCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	crs, err := h.ownCourse(ctx, c, param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if crs.Status != course.CourseDraft && crs.Status != course.CourseRejected {
		return middleware.ErrorResponse(c, apperr.Conflict("Course is already %s!", crs.Status))
	}
	if err := h.backend.SetCourseStatus(ctx, crs.ID, course.CoursePending); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	crs.Status = course.CoursePending
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course submitted for approval!", crs)
}

func (h *Handler) reviewCourse(c *fiber.Ctx, status, msg string) error {
	ctx := c.UserContext()
	crs, err := h.backend.GetCourse(ctx, param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if crs.Status != course.CoursePending {
		return middleware.ErrorResponse(c, apperr.Conflict("Only pending courses can be reviewed, course is %s!", crs.Status))
	}
	if err := h.backend.SetCourseStatus(ctx, crs.ID, status); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	crs.Status = status
	return middleware.JsonResponse(c, fiber.StatusOK, true, msg, crs)
}

func (h *Handler) ApproveCourse(c *fiber.Ctx) error {
	return h.reviewCourse(c, course.CourseApproved, "Course approved successfully!")
}

func (h *Handler) RejectCourse(c *fiber.Ctx) error {
	return h.reviewCourse(c, course.CourseRejected, "Course rejected successfully!")
}

// CreateChapter adds a chapter to a course the teacher manages
func (h *Handler) CreateChapter(c *fiber.Ctx) error {
	ctx := c.UserContext()
	reqData := courseValidator.Validated[courseValidator.CreateChapterRequest](c)

	crs, err := h.ownCourse(ctx, c, param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	ch := course.Chapter{CourseID: crs.ID, Title: reqData.Title, OrderIndex: reqData.OrderIndex}
	if err := h.backend.CreateChapter(ctx, &ch); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Chapter created successfully!", ch)
}

// CreateLesson adds a lesson to a chapter of a course the teacher manages
func (h *Handler) CreateLesson(c *fiber.Ctx) error {
	ctx := c.UserContext()
	reqData := courseValidator.Validated[courseValidator.CreateLessonRequest](c)

	crs, err := h.ownCourse(ctx, c, param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	ch, err := h.backend.GetChapter(ctx, reqData.ChapterID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if ch.CourseID != crs.ID {
		return middleware.ErrorResponse(c, apperr.Field("chapter_id", "Chapter does not belong to this course!"))
	}

	lesson := course.Lesson{
		CourseID:        crs.ID,
		ChapterID:       ch.ID,
		Title:           reqData.Title,
		ContentType:     reqData.ContentType,
		ContentURL:      reqData.ContentURL,
		OrderIndex:      reqData.OrderIndex,
		DurationMinutes: reqData.DurationMinutes,
	}
	if reqData.PassingPercentage != nil {
		lesson.PassingPercentage = *reqData.PassingPercentage
	}
	if err := h.backend.CreateLesson(ctx, &lesson); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// DeleteLesson removes a lesson; completion is recounted against the lessons that remain
func (h *Handler) DeleteLesson(c *fiber.Ctx) error {
	ctx := c.UserContext()
	lesson, err := h.backend.GetLesson(ctx, param(c, "lessonID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if _, err := h.ownCourse(ctx, c, lesson.CourseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := h.backend.DeleteLesson(ctx, lesson.ID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully!", nil)
}
