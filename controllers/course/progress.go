package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/middleware"
	"coursetrack/services/progress"
	courseValidator "coursetrack/validators/course"
)

// GetUserProgress returns the current student's progress in one course
func (h *Handler) GetUserProgress(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	courseID := param(c, "courseID")

	eligibility, err := h.certificates.Evaluate(c.UserContext(), userID, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", eligibility)
}

// GetMyProgress returns the current student's progress across every enrollment
func (h *Handler) GetMyProgress(c *fiber.Ctx) error {
	summary, err := h.progress.Student(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", summary)
}

type studentProgressView struct {
	progress.StudentProgress
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GetProgressReport is the admin list view. It uses the same aggregation as
// GetStudentProgress so both agree.
func (h *Handler) GetProgressReport(c *fiber.Ctx) error {
	ctx := c.UserContext()
	q := courseValidator.Validated[courseValidator.ProgressQuery](c)

	var f progress.Filter
	if q != nil {
		f = progress.Filter{StudentID: q.StudentID, CourseID: q.CourseID}
	}
	report, err := h.progress.Report(ctx, f)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	ids := make([]uint, 0, len(report.Students))
	for _, s := range report.Students {
		ids = append(ids, s.StudentID)
	}
	users, err := h.users(ctx, ids)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	views := make([]studentProgressView, 0, len(report.Students))
	for _, s := range report.Students {
		u := users[s.StudentID]
		views = append(views, studentProgressView{StudentProgress: s, Name: u.Name, Email: u.Email})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress report fetched successfully!", views)
}

// GetStudentProgress is the admin detail view for one student
func (h *Handler) GetStudentProgress(c *fiber.Ctx) error {
	ctx := c.UserContext()
	studentID := param(c, "studentID")

	user, err := h.backend.GetUser(ctx, studentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	summary, err := h.progress.Student(ctx, studentID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!",
		studentProgressView{StudentProgress: summary, Name: user.Name, Email: user.Email})
}
