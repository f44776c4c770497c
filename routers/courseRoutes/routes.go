package courseRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "coursetrack/controllers/course"
)

// Setup registers every route group on app
func Setup(app *fiber.App, h *controllers.Handler, jwtSecret string) {
	SetupCourseRoutes(app, h, jwtSecret)
	SetupTeacherRoutes(app, h, jwtSecret)
	SetupAdminCourseRoutes(app, h, jwtSecret)
}
