package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/models"
	validators "coursetrack/validators/course"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App, h *controllers.Handler, jwtSecret string) {
	auth := middleware.JWTMiddleware(jwtSecret)
	anyRole := middleware.RequireRole(models.RoleStudent, models.RoleTeacher, models.RoleAdmin)
	student := middleware.RequireRole(models.RoleStudent)

	userGroup := app.Group("/course", auth)

	// Course listing and details
	userGroup.Get("/list", anyRole, validators.CourseList(), h.GetAllCourses)
	userGroup.Get("/:id", anyRole, validators.GetCourseDetail(), h.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", student, validators.GetCourseDetail(), validators.EnrollCourse(), h.EnrollInCourse)

	// Lesson completion and quiz submission
	userGroup.Post("/:course_id/lesson/:lesson_id/complete", student, validators.CourseIDParam(), validators.LessonIDParam(), validators.MarkLessonComplete(), h.MarkLessonComplete)
	userGroup.Post("/:course_id/lesson/:lesson_id/quiz", student, validators.CourseIDParam(), validators.LessonIDParam(), validators.SubmitQuiz(), h.SubmitQuiz)

	// Progress tracking
	userGroup.Get("/:course_id/progress", student, validators.CourseIDParam(), h.GetUserProgress)

	// Certificate and cohort requests
	userGroup.Post("/:course_id/certificate/request", student, validators.CourseIDParam(), h.RequestCertificate)
	userGroup.Post("/:course_id/cohort/request", student, validators.CourseIDParam(), validators.RequestCohort(), h.RequestCohort)

	// User enrollments, progress and certificates
	userEnrollGroup := app.Group("/user", auth, student)
	userEnrollGroup.Get("/enrollments", h.GetUserEnrollmentsList)
	userEnrollGroup.Get("/progress", h.GetMyProgress)
	userEnrollGroup.Get("/certificates", h.GetUserCertificates)

	app.Post("/activity/heartbeat", auth, anyRole, h.Heartbeat)
}
