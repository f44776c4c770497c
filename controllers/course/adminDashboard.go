package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"

	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/services/progress"
)

type DashboardStats struct {
	TotalCourses          int `json:"total_courses"`
	ApprovedCourses       int `json:"approved_courses"`
	PendingCourses        int `json:"pending_courses"`
	TotalStudents         int `json:"total_students"`
	ActiveStudentsWeek    int `json:"active_students_this_week"`
	TotalEnrollments      int `json:"total_enrollments"`
	EnrollmentsThisWeek   int `json:"enrollments_this_week"`
	EnrollmentsThisMonth  int `json:"enrollments_this_month"`
	CompletedEnrollments  int `json:"completed_enrollments"`
	PendingCertificates   int `json:"pending_certificates"`
	ApprovedCertificates  int `json:"approved_certificates"`
	CompletionRatePercent int `json:"completion_rate_percent"`
}

func since(t *time.Time, start time.Time) bool {
	return t != nil && !t.Before(start)
}

// GetDashboardStats returns admin dashboard counters
func (h *Handler) GetDashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	clock := now.With(h.now())
	weekStart, monthStart := clock.BeginningOfWeek(), clock.BeginningOfMonth()

	var stats DashboardStats

	courses, err := h.backend.ListCourses(ctx, backend.CourseFilter{})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	stats.TotalCourses = len(courses)
	for _, crs := range courses {
		switch crs.Status {
		case course.CourseApproved:
			stats.ApprovedCourses++
		case course.CoursePending:
			stats.PendingCourses++
		}
	}

	users, err := h.backend.ListUsers(ctx)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	for _, u := range users {
		if u.Role != models.RoleStudent {
			continue
		}
		stats.TotalStudents++
		if since(u.LastActiveAt, weekStart) {
			stats.ActiveStudentsWeek++
		}
	}

	enrollments, err := h.backend.ListEnrollments(ctx, backend.EnrollmentFilter{})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	stats.TotalEnrollments = len(enrollments)
	for _, e := range enrollments {
		at := e.EnrolledAt
		if since(&at, weekStart) {
			stats.EnrollmentsThisWeek++
		}
		if since(&at, monthStart) {
			stats.EnrollmentsThisMonth++
		}
	}

	completions, err := h.backend.GetCourseCompletions(ctx)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	for _, cc := range completions {
		if cc.Completed {
			stats.CompletedEnrollments++
		}
		if cc.CertificateStatus == nil {
			continue
		}
		switch *cc.CertificateStatus {
		case course.CertificatePending:
			stats.PendingCertificates++
		case course.CertificateApproved:
			stats.ApprovedCertificates++
		}
	}
	stats.CompletionRatePercent = progress.Percentage(stats.CompletedEnrollments, stats.TotalEnrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}
