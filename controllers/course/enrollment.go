package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models/course"
	"coursetrack/services/progress"
	courseValidator "coursetrack/validators/course"
)

// EnrollInCourse enrolls the current student in an approved course
func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)
	courseID := param(c, "courseID")
	reqData := courseValidator.Validated[courseValidator.EnrollRequest](c)

	crs, err := h.backend.GetCourse(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if crs.Status != course.CourseApproved {
		return middleware.ErrorResponse(c, apperr.Forbidden("Course is not open for enrollment!"))
	}

	enrollment := course.Enrollment{StudentID: userID, CourseID: courseID}
	if reqData != nil && reqData.CohortName != nil {
		name := strings.TrimSpace(*reqData.CohortName)
		if name != "" {
			enrollment.CohortName = &name
		}
	}
	if err := h.backend.CreateEnrollment(ctx, &enrollment); err != nil {
		if apperr.IsConflict(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully!", enrollment)
}

type enrollmentView struct {
	course.Enrollment
	CourseTitle        string     `json:"course_title"`
	TotalLessons       int        `json:"total_lessons"`
	CompletedLessons   int        `json:"completed_lessons"`
	ProgressPercentage int        `json:"progress_percentage"`
	LastActivity       *time.Time `json:"last_activity"`
}

// GetUserEnrollmentsList lists the current student's enrollments with progress
func (h *Handler) GetUserEnrollmentsList(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	snap, err := h.progress.Snapshot(ctx, progress.Filter{StudentID: &userID})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	report := progress.Aggregate(snap, progress.Filter{StudentID: &userID})
	titles, err := h.titles(ctx)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	views := make([]enrollmentView, 0, len(snap.Enrollments))
	for _, e := range snap.Enrollments {
		v := enrollmentView{Enrollment: e, CourseTitle: titles[e.CourseID]}
		if p, ok := report.Course(e.StudentID, e.CourseID); ok {
			v.TotalLessons = p.TotalLessons
			v.CompletedLessons = p.CompletedLessons
			v.ProgressPercentage = p.ProgressPercentage
			v.LastActivity = p.LastActivity
		}
		views = append(views, v)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", views)
}

// enrolled fails with NotFound unless the student is enrolled in the course.
func (h *Handler) enrolled(c *fiber.Ctx, studentID, courseID uint) error {
	list, err := h.backend.ListEnrollments(c.UserContext(), backend.EnrollmentFilter{StudentID: &studentID, CourseID: &courseID})
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return apperr.NotFound("enrollment", nil)
	}
	return nil
}
