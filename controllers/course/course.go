package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models/course"
	courseValidator "coursetrack/validators/course"
)

// GetAllCourses lists approved courses, paginated
func (h *Handler) GetAllCourses(c *fiber.Ctx) error {
	q := courseValidator.Validated[courseValidator.CourseListQuery](c)
	page, limit := 1, 20
	if q != nil && q.Page > 0 {
		page = q.Page
	}
	if q != nil && q.Limit > 0 {
		limit = q.Limit
	}

	courses, err := h.backend.ListCourses(c.UserContext(), backend.CourseFilter{Status: course.CourseApproved})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	total := len(courses)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := start + limit
	if end > total {
		end = total
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses[start:end],
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

type chapterDetail struct {
	course.Chapter
	Lessons []course.Lesson `json:"lessons"`
}

// GetCourseDetails returns a course with its chapters and lessons in order
func (h *Handler) GetCourseDetails(c *fiber.Ctx) error {
	ctx := c.UserContext()
	courseID := param(c, "courseID")

	crs, err := h.visibleCourse(ctx, c, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	chapters, err := h.backend.ListChapters(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lessons, err := h.backend.ListLessons(ctx, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	byChapter := make(map[uint][]course.Lesson)
	for _, l := range lessons {
		byChapter[l.ChapterID] = append(byChapter[l.ChapterID], l)
	}
	details := make([]chapterDetail, 0, len(chapters))
	for _, ch := range chapters {
		ls := byChapter[ch.ID]
		if ls == nil {
			ls = []course.Lesson{}
		}
		details = append(details, chapterDetail{Chapter: ch, Lessons: ls})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":        crs,
		"chapters":      details,
		"total_lessons": len(lessons),
	})
}
