package controllers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models"
	"coursetrack/services/export"
	"coursetrack/services/grades"
	courseValidator "coursetrack/validators/course"
)

// GetGrades returns quiz results with summary statistics. Teachers see their
// own courses; admins see everything. format=csv|xlsx downloads the rows.
func (h *Handler) GetGrades(c *fiber.Ctx) error {
	ctx := c.UserContext()
	q := courseValidator.Validated[courseValidator.GradesQuery](c)

	var f backend.AttemptFilter
	if middleware.Role(c) != models.RoleAdmin {
		teacherID := middleware.UserID(c)
		f.TeacherID = &teacherID
	}
	rows, err := h.backend.GetQuizAttempts(ctx, f)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var gf grades.Filter
	format := ""
	if q != nil {
		gf = grades.Filter{Search: q.Search, CourseID: q.CourseID}
		format = q.Format
	}
	table := grades.Build(rows, gf)

	if format == "" || format == "json" {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Grades fetched successfully!", table)
	}

	mime, ext, err := export.ContentType(format)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"format": err.Error()})
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table.Rows); err != nil {
		h.log.Error("error exporting grades", zap.String("format", format), zap.Error(err))
		return middleware.ErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, mime)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="grades-%s.%s"`, h.now().Format("20060102"), ext))
	return c.Send(buf.Bytes())
}
