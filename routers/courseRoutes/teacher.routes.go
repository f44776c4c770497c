package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/models"
	validators "coursetrack/validators/course"
)

// SetupTeacherRoutes sets up course authoring, grades and cohort review routes
func SetupTeacherRoutes(app *fiber.App, h *controllers.Handler, jwtSecret string) {
	teacher := app.Group("/teacher",
		middleware.JWTMiddleware(jwtSecret),
		middleware.RequireRole(models.RoleTeacher, models.RoleAdmin),
	)

	// Course authoring
	teacher.Post("/course", validators.CreateCourse(), h.CreateCourse)
	teacher.Post("/course/:id/submit", validators.GetCourseDetail(), h.SubmitCourse)
	teacher.Post("/course/:id/chapter", validators.GetCourseDetail(), validators.CreateChapter(), h.CreateChapter)
	teacher.Post("/course/:course_id/lesson", validators.CourseIDParam(), validators.CreateLesson(), h.CreateLesson)
	teacher.Delete("/lesson/:lesson_id", validators.LessonIDParam(), h.DeleteLesson)

	// Grades
	teacher.Get("/grades", validators.Grades(), h.GetGrades)

	// Cohort requests
	teacher.Get("/course/:id/cohort/requests", validators.GetCourseDetail(), validators.CohortRequests(), h.ListCohortRequests)
	teacher.Post("/cohort/request/:request_id/approve", validators.RequestIDParam(), h.ApproveCohortRequest)
	teacher.Post("/cohort/request/:request_id/reject", validators.RequestIDParam(), validators.Reason(), h.RejectCohortRequest)
	teacher.Put("/enrollment/cohort", validators.AssignCohort(), h.AssignCohort)
}
