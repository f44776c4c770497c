package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models/course"
)

func (s *Store) CreateEnrollment(ctx context.Context, e *course.Enrollment) error {
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return wrap("create enrollment", s.conn(ctx).Create(e).Error)
}

func (s *Store) ListEnrollments(ctx context.Context, f backend.EnrollmentFilter) ([]course.Enrollment, error) {
	q := s.conn(ctx).Model(&course.Enrollment{})
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	var enrollments []course.Enrollment
	if err := q.Order("id asc").Find(&enrollments).Error; err != nil {
		return nil, wrap("list enrollments", err)
	}
	return enrollments, nil
}

// SetEnrollmentCohort reassigns the cohort; a nil cohort clears it.
func (s *Store) SetEnrollmentCohort(ctx context.Context, studentID, courseID uint, cohort *string) error {
	var value any
	if cohort != nil {
		value = *cohort
	}
	res := s.conn(ctx).Model(&course.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Update("cohort_name", value)
	return affected(res, "set enrollment cohort", "enrollment", nil)
}

func (s *Store) CreateCohortRequest(ctx context.Context, r *course.CohortJoinRequest) error {
	if r.Status == "" {
		r.Status = course.RequestPending
	}
	return wrap("create cohort request", s.conn(ctx).Create(r).Error)
}

func (s *Store) GetCohortRequest(ctx context.Context, id uint) (course.CohortJoinRequest, error) {
	var r course.CohortJoinRequest
	err := first(s.conn(ctx).Where("id = ?", id), &r, "cohort request", id)
	return r, err
}

func (s *Store) ListCohortRequests(ctx context.Context, f backend.CohortRequestFilter) ([]course.CohortJoinRequest, error) {
	q := s.conn(ctx).Model(&course.CohortJoinRequest{})
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var requests []course.CohortJoinRequest
	if err := q.Order("created_at asc, id asc").Find(&requests).Error; err != nil {
		return nil, wrap("list cohort requests", err)
	}
	return requests, nil
}

func (s *Store) SetCohortRequestStatus(ctx context.Context, id uint, status, reason string) error {
	res := s.conn(ctx).Model(&course.CohortJoinRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "reason": reason, "updated_at": time.Now().UTC()})
	return affected(res, "set cohort request status", "cohort request", id)
}

func (s *Store) ApproveCohortRequest(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var r course.CohortJoinRequest
		if err := first(tx.Where("id = ?", id), &r, "cohort request", id); err != nil {
			return err
		}
		res := tx.Model(&course.CohortJoinRequest{}).
			Where("id = ? AND status = ?", id, course.RequestPending).
			Updates(map[string]any{"status": course.RequestApproved, "reason": "", "updated_at": time.Now().UTC()})
		if res.Error != nil {
			return wrap("approve cohort request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("cohort request %d is already %s", id, r.Status)
		}
		res = tx.Model(&course.Enrollment{}).
			Where("student_id = ? AND course_id = ?", r.StudentID, r.CourseID).
			Update("cohort_name", r.CohortName)
		return affected(res, "set enrollment cohort", "enrollment", nil)
	})
}
