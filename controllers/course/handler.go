package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models"
	"coursetrack/models/course"
	"coursetrack/services/activity"
	"coursetrack/services/certificate"
	"coursetrack/services/cohort"
	"coursetrack/services/progress"
)

// Handler serves every course, progress, grade and certificate route.
type Handler struct {
	backend      backend.Backend
	progress     *progress.Service
	certificates *certificate.Service
	cohorts      *cohort.Service
	activity     *activity.Tracker
	log          *zap.Logger
	now          func() time.Time
}

type Options struct {
	Notifier          certificate.Notifier
	HeartbeatInterval time.Duration
	Log               *zap.Logger
}

func NewHandler(be backend.Backend, opts Options) *Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		backend:      be,
		progress:     progress.NewService(be),
		certificates: certificate.NewService(be, opts.Notifier, log),
		cohorts:      cohort.NewService(be),
		activity:     activity.NewTracker(be, opts.HeartbeatInterval),
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Certificates exposes the evaluator for the scheduler and the CLI.
func (h *Handler) Certificates() *certificate.Service {
	return h.certificates
}

func param(c *fiber.Ctx, key string) uint {
	id, _ := c.Locals(key).(uint)
	return id
}

// ownCourse loads a course the caller may manage: admins any, teachers their own.
func (h *Handler) ownCourse(ctx context.Context, c *fiber.Ctx, courseID uint) (course.Course, error) {
	crs, err := h.backend.GetCourse(ctx, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if middleware.Role(c) == models.RoleAdmin {
		return crs, nil
	}
	if crs.TeacherID != middleware.UserID(c) {
		return course.Course{}, apperr.Forbidden("You do not manage this course!")
	}
	return crs, nil
}

// visibleCourse loads a course the caller may browse.
func (h *Handler) visibleCourse(ctx context.Context, c *fiber.Ctx, courseID uint) (course.Course, error) {
	crs, err := h.backend.GetCourse(ctx, courseID)
	if err != nil {
		return course.Course{}, err
	}
	switch {
	case crs.Status == course.CourseApproved, middleware.Role(c) == models.RoleAdmin:
		return crs, nil
	case middleware.Role(c) == models.RoleTeacher && crs.TeacherID == middleware.UserID(c):
		return crs, nil
	}
	return course.Course{}, apperr.NotFound("course", courseID)
}

// titles maps every course id to its title.
func (h *Handler) titles(ctx context.Context) (map[uint]string, error) {
	courses, err := h.backend.ListCourses(ctx, backend.CourseFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(courses))
	for _, crs := range courses {
		out[crs.ID] = crs.Title
	}
	return out, nil
}

func (h *Handler) users(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := h.backend.ListUsers(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
