package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/middleware"
	"coursetrack/models/course"
	"coursetrack/services/cohort"
	courseValidator "coursetrack/validators/course"
)

// RequestCohort asks to join a named cohort of a course the student is enrolled in
func (h *Handler) RequestCohort(c *fiber.Ctx) error {
	reqData := courseValidator.Validated[courseValidator.CohortJoinRequest](c)

	r, err := h.cohorts.Request(c.UserContext(), middleware.UserID(c), param(c, "courseID"), reqData.CohortName)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Cohort request submitted successfully!", r)
}

type cohortRequestView struct {
	course.CohortJoinRequest
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// ListCohortRequests lists the join requests of a course the teacher manages
func (h *Handler) ListCohortRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()
	q := courseValidator.Validated[courseValidator.CohortRequestsQuery](c)

	crs, err := h.ownCourse(ctx, c, param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	status, search := "", ""
	if q != nil {
		status, search = q.Status, q.Search
	}

	requests, err := h.cohorts.List(ctx, crs.ID, status)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	ids := make([]uint, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.StudentID)
	}
	users, err := h.users(ctx, ids)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	names := make(map[uint]string, len(users))
	for id, u := range users {
		names[id] = u.Name + " " + u.Email
	}

	filtered := cohort.Filter(requests, search, names)
	views := make([]cohortRequestView, 0, len(filtered))
	for _, r := range filtered {
		u := users[r.StudentID]
		views = append(views, cohortRequestView{CohortJoinRequest: r, StudentName: u.Name, StudentEmail: u.Email})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cohort requests fetched successfully!", views)
}

// requestCourse checks the caller manages the course of a join request.
func (h *Handler) requestCourse(c *fiber.Ctx) (uint, error) {
	ctx := c.UserContext()
	id := param(c, "requestID")
	r, err := h.backend.GetCohortRequest(ctx, id)
	if err != nil {
		return 0, err
	}
	if _, err := h.ownCourse(ctx, c, r.CourseID); err != nil {
		return 0, err
	}
	return id, nil
}

func (h *Handler) ApproveCohortRequest(c *fiber.Ctx) error {
	id, err := h.requestCourse(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	r, err := h.cohorts.Approve(c.UserContext(), id)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cohort request approved!", r)
}

func (h *Handler) RejectCohortRequest(c *fiber.Ctx) error {
	reqData := courseValidator.Validated[courseValidator.ReasonRequest](c)
	id, err := h.requestCourse(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	r, err := h.cohorts.Reject(c.UserContext(), id, reqData.Reason)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cohort request rejected!", r)
}

// AssignCohort sets or clears an enrollment's cohort directly
func (h *Handler) AssignCohort(c *fiber.Ctx) error {
	ctx := c.UserContext()
	reqData := courseValidator.Validated[courseValidator.AssignCohortRequest](c)
	if _, err := h.ownCourse(ctx, c, reqData.CourseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := h.cohorts.Assign(ctx, reqData.StudentID, reqData.CourseID, reqData.CohortName); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Cohort updated successfully!", nil)
}
