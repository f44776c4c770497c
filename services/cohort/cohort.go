// Package cohort handles students asking to join a named cohort of a course.
package cohort

import (
	"context"
	"strings"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models/course"
)

type Store interface {
	ListEnrollments(ctx context.Context, f backend.EnrollmentFilter) ([]course.Enrollment, error)
	SetEnrollmentCohort(ctx context.Context, studentID, courseID uint, cohort *string) error
	CreateCohortRequest(ctx context.Context, r *course.CohortJoinRequest) error
	GetCohortRequest(ctx context.Context, id uint) (course.CohortJoinRequest, error)
	ListCohortRequests(ctx context.Context, f backend.CohortRequestFilter) ([]course.CohortJoinRequest, error)
	SetCohortRequestStatus(ctx context.Context, id uint, status, reason string) error
	ApproveCohortRequest(ctx context.Context, id uint) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Request files a pending join request. The student must be enrolled and
// may have only one pending request per course.
func (s *Service) Request(ctx context.Context, studentID, courseID uint, cohortName string) (course.CohortJoinRequest, error) {
	name := strings.TrimSpace(cohortName)
	if name == "" {
		return course.CohortJoinRequest{}, apperr.Field("cohort_name", "cohort_name is required")
	}

	enrollments, err := s.store.ListEnrollments(ctx, backend.EnrollmentFilter{StudentID: &studentID, CourseID: &courseID})
	if err != nil {
		return course.CohortJoinRequest{}, err
	}
	if len(enrollments) == 0 {
		return course.CohortJoinRequest{}, apperr.NotFound("enrollment", nil)
	}
	if current := enrollments[0].CohortName; current != nil && strings.EqualFold(*current, name) {
		return course.CohortJoinRequest{}, apperr.Conflict("already in cohort %q", *current)
	}

	pending, err := s.store.ListCohortRequests(ctx, backend.CohortRequestFilter{CourseID: &courseID, Status: course.RequestPending})
	if err != nil {
		return course.CohortJoinRequest{}, err
	}
	for _, r := range pending {
		if r.StudentID == studentID {
			return course.CohortJoinRequest{}, apperr.Conflict("a cohort request is already pending")
		}
	}

	r := course.CohortJoinRequest{StudentID: studentID, CourseID: courseID, CohortName: name, Status: course.RequestPending}
	if err := s.store.CreateCohortRequest(ctx, &r); err != nil {
		return course.CohortJoinRequest{}, err
	}
	return r, nil
}

func (s *Service) pending(ctx context.Context, id uint) (course.CohortJoinRequest, error) {
	r, err := s.store.GetCohortRequest(ctx, id)
	if err != nil {
		return r, err
	}
	if r.Status != course.RequestPending {
		return r, apperr.Conflict("cohort request %d is already %s", id, r.Status)
	}
	return r, nil
}

// Approve moves the student's enrollment into the requested cohort. The
// request and the enrollment change together or not at all.
func (s *Service) Approve(ctx context.Context, id uint) (course.CohortJoinRequest, error) {
	r, err := s.pending(ctx, id)
	if err != nil {
		return course.CohortJoinRequest{}, err
	}
	if err := s.store.ApproveCohortRequest(ctx, id); err != nil {
		return course.CohortJoinRequest{}, err
	}
	r.Status = course.RequestApproved
	return r, nil
}

func (s *Service) Reject(ctx context.Context, id uint, reason string) (course.CohortJoinRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return course.CohortJoinRequest{}, apperr.Field("reason", "reason is required")
	}
	r, err := s.pending(ctx, id)
	if err != nil {
		return course.CohortJoinRequest{}, err
	}
	if err := s.store.SetCohortRequestStatus(ctx, id, course.RequestRejected, reason); err != nil {
		return course.CohortJoinRequest{}, err
	}
	r.Status = course.RequestRejected
	r.Reason = reason
	return r, nil
}

// List returns a course's requests, optionally by status.
func (s *Service) List(ctx context.Context, courseID uint, status string) ([]course.CohortJoinRequest, error) {
	return s.store.ListCohortRequests(ctx, backend.CohortRequestFilter{CourseID: &courseID, Status: status})
}

// Assign sets or clears (empty name) an enrollment's cohort directly.
func (s *Service) Assign(ctx context.Context, studentID, courseID uint, cohortName string) error {
	name := strings.TrimSpace(cohortName)
	if name == "" {
		return s.store.SetEnrollmentCohort(ctx, studentID, courseID, nil)
	}
	return s.store.SetEnrollmentCohort(ctx, studentID, courseID, &name)
}

// Filter matches requests case-insensitively on cohort name and status.
// studentNames maps student ids to display names for the search.
func Filter(requests []course.CohortJoinRequest, search string, studentNames map[uint]string) []course.CohortJoinRequest {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return requests
	}
	out := make([]course.CohortJoinRequest, 0, len(requests))
	for _, r := range requests {
		if strings.Contains(strings.ToLower(r.CohortName), needle) ||
			strings.Contains(strings.ToLower(r.Status), needle) ||
			strings.Contains(strings.ToLower(studentNames[r.StudentID]), needle) {
			out = append(out, r)
		}
	}
	return out
}
