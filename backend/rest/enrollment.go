package rest

import (
	"context"
	"net/url"

	"coursetrack/backend"
	"coursetrack/models/course"
)

func (c *Client) CreateEnrollment(ctx context.Context, e *course.Enrollment) error {
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = c.now()
	}
	body, err := c.insert(ctx, "create enrollment", "enrollments", map[string]any{
		"student_id":  e.StudentID,
		"course_id":   e.CourseID,
		"cohort_name": e.CohortName,
		"enrolled_at": e.EnrolledAt,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create enrollment", "enrollment", nil, body, enrollmentRow.model)
	if err != nil {
		return err
	}
	*e = created
	return nil
}

func (c *Client) ListEnrollments(ctx context.Context, f backend.EnrollmentFilter) ([]course.Enrollment, error) {
	q := url.Values{"order": {"id.asc"}}
	if f.StudentID != nil {
		q.Set("student_id", eq(*f.StudentID))
	}
	if f.CourseID != nil {
		q.Set("course_id", eq(*f.CourseID))
	}
	body, err := c.list(ctx, "list enrollments", "enrollments", q)
	if err != nil {
		return nil, err
	}
	return decode("list enrollments", "enrollment", body, enrollmentRow.model)
}

func (c *Client) SetEnrollmentCohort(ctx context.Context, studentID, courseID uint, cohort *string) error {
	filter := url.Values{"student_id": {eq(studentID)}, "course_id": {eq(courseID)}}
	body, err := c.update(ctx, "set enrollment cohort", "enrollments", filter, map[string]any{"cohort_name": cohort})
	return touched("set enrollment cohort", "enrollment", nil, body, err)
}

func (c *Client) CreateCohortRequest(ctx context.Context, r *course.CohortJoinRequest) error {
	if r.Status == "" {
		r.Status = course.RequestPending
	}
	body, err := c.insert(ctx, "create cohort request", "cohort_join_requests", map[string]any{
		"student_id":  r.StudentID,
		"course_id":   r.CourseID,
		"cohort_name": r.CohortName,
		"status":      r.Status,
		"reason":      r.Reason,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create cohort request", "cohort request", nil, body, cohortRequestRow.model)
	if err != nil {
		return err
	}
	*r = created
	return nil
}

func (c *Client) GetCohortRequest(ctx context.Context, id uint) (course.CohortJoinRequest, error) {
	body, err := c.list(ctx, "get cohort request", "cohort_join_requests", url.Values{"id": {eq(id)}, "limit": {"1"}})
	if err != nil {
		return course.CohortJoinRequest{}, err
	}
	return decodeOne("get cohort request", "cohort request", id, body, cohortRequestRow.model)
}

func (c *Client) ListCohortRequests(ctx context.Context, f backend.CohortRequestFilter) ([]course.CohortJoinRequest, error) {
	q := url.Values{"order": {"created_at.asc,id.asc"}}
	if f.CourseID != nil {
		q.Set("course_id", eq(*f.CourseID))
	}
	if f.Status != "" {
		q.Set("status", eq(f.Status))
	}
	body, err := c.list(ctx, "list cohort requests", "cohort_join_requests", q)
	if err != nil {
		return nil, err
	}
	return decode("list cohort requests", "cohort request", body, cohortRequestRow.model)
}

func (c *Client) SetCohortRequestStatus(ctx context.Context, id uint, status, reason string) error {
	body, err := c.update(ctx, "set cohort request status", "cohort_join_requests", url.Values{"id": {eq(id)}}, map[string]any{
		"status":     status,
		"reason":     reason,
		"updated_at": c.now(),
	})
	return touched("set cohort request status", "cohort request", id, body, err)
}

// ApproveCohortRequest calls the approve_cohort_request function, which
// updates the request and the enrollment in one database transaction and
// returns the approved request row.
func (c *Client) ApproveCohortRequest(ctx context.Context, id uint) error {
	body, err := c.rpc(ctx, "approve cohort request", "approve_cohort_request", map[string]any{"p_request_id": id})
	return touched("approve cohort request", "cohort request", id, body, err)
}
