package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "coursetrack/controllers/course"
	"coursetrack/middleware"
	"coursetrack/models"
	validators "coursetrack/validators/course"
)

// SetupAdminCourseRoutes sets up admin analytics and approval routes
func SetupAdminCourseRoutes(app *fiber.App, h *controllers.Handler, jwtSecret string) {
	admin := app.Group("/admin",
		middleware.JWTMiddleware(jwtSecret),
		middleware.RequireRole(models.RoleAdmin),
	)

	// Progress analytics
	admin.Get("/progress", validators.ProgressFilter(), h.GetProgressReport)
	admin.Get("/student/:user_id/progress", validators.StudentIDParam(), h.GetStudentProgress)
	admin.Get("/completions", h.GetCompletions)

	// Certificates
	admin.Get("/certificates", validators.Certificates(), h.ListCertificates)
	admin.Post("/certificate/approve", validators.ApproveCertificate(), h.ApproveCertificate)
	admin.Post("/certificate/reject", validators.RejectCertificate(), h.RejectCertificate)

	// Grades across every course
	admin.Get("/grades", validators.Grades(), h.GetGrades)

	// Course approval
	admin.Post("/course/:id/approve", validators.GetCourseDetail(), h.ApproveCourse)
	admin.Post("/course/:id/reject", validators.GetCourseDetail(), h.RejectCourse)

	// Enrollment cohorts
	admin.Put("/enrollment/cohort", validators.AssignCohort(), h.AssignCohort)

	// Dashboard
	admin.Get("/dashboard/stats", h.GetDashboardStats)
}
