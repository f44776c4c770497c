package cohort_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models/course"
	"coursetrack/services/cohort"
	"coursetrack/testutil"
)

func TestRequestApprove(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	testutil.Enroll(t, s, 7, c.Course.ID)
	svc := cohort.NewService(s)

	_, err := svc.Request(ctx, 7, c.Course.ID, "  ")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.Request(ctx, 8, c.Course.ID, "Evening")
	assert.True(t, apperr.IsNotFound(err))

	r, err := svc.Request(ctx, 7, c.Course.ID, " Evening ")
	require.NoError(t, err)
	assert.Equal(t, "Evening", r.CohortName)
	assert.Equal(t, course.RequestPending, r.Status)

	_, err = svc.Request(ctx, 7, c.Course.ID, "Morning")
	assert.True(t, apperr.IsConflict(err))

	approved, err := svc.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, course.RequestApproved, approved.Status)

	student := uint(7)
	enrollments, err := s.ListEnrollments(ctx, backend.EnrollmentFilter{StudentID: &student})
	require.NoError(t, err)
	require.NotNil(t, enrollments[0].CohortName)
	assert.Equal(t, "Evening", *enrollments[0].CohortName)

	_, err = svc.Approve(ctx, r.ID)
	assert.True(t, apperr.IsConflict(err))

	_, err = svc.Request(ctx, 7, c.Course.ID, "evening")
	assert.True(t, apperr.IsConflict(err))
}

func TestApproveWithoutEnrollmentLeavesRequestPending(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	svc := cohort.NewService(s)

	r := course.CohortJoinRequest{StudentID: 8, CourseID: c.Course.ID, CohortName: "Evening"}
	require.NoError(t, s.CreateCohortRequest(ctx, &r))

	_, err := svc.Approve(ctx, r.ID)
	assert.True(t, apperr.IsNotFound(err))

	pending, err := svc.List(ctx, c.Course.ID, course.RequestPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, r.ID, pending[0].ID)
}

func TestReject(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	testutil.Enroll(t, s, 7, c.Course.ID)
	svc := cohort.NewService(s)

	r, err := svc.Request(ctx, 7, c.Course.ID, "Evening")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, r.ID, "")
	assert.True(t, apperr.IsValidation(err))

	rejected, err := svc.Reject(ctx, r.ID, "cohort is full")
	require.NoError(t, err)
	assert.Equal(t, course.RequestRejected, rejected.Status)
	assert.Equal(t, "cohort is full", rejected.Reason)

	_, err = svc.Reject(ctx, 999, "nope")
	assert.True(t, apperr.IsNotFound(err))

	list, err := svc.List(ctx, c.Course.ID, course.RequestRejected)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAssign(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	c := testutil.SeedCourse(t, s, 1, "Go", 1)
	testutil.Enroll(t, s, 7, c.Course.ID)
	svc := cohort.NewService(s)

	require.NoError(t, svc.Assign(ctx, 7, c.Course.ID, "Weekend"))
	require.NoError(t, svc.Assign(ctx, 7, c.Course.ID, ""))

	student := uint(7)
	enrollments, err := s.ListEnrollments(ctx, backend.EnrollmentFilter{StudentID: &student})
	require.NoError(t, err)
	assert.Nil(t, enrollments[0].CohortName)

	assert.True(t, apperr.IsNotFound(svc.Assign(ctx, 9, c.Course.ID, "Weekend")))
}

func TestFilter(t *testing.T) {
	requests := []course.CohortJoinRequest{
		{ID: 1, StudentID: 7, CohortName: "Evening", Status: course.RequestPending},
		{ID: 2, StudentID: 8, CohortName: "Morning", Status: course.RequestRejected},
	}
	names := map[uint]string{7: "Ana Lopez", 8: "Bo Chen"}

	assert.Len(t, cohort.Filter(requests, "", names), 2)
	assert.Equal(t, uint(1), cohort.Filter(requests, "EVEN", names)[0].ID)
	assert.Equal(t, uint(2), cohort.Filter(requests, "chen", names)[0].ID)
	assert.Equal(t, uint(2), cohort.Filter(requests, "rejected", names)[0].ID)
	assert.Empty(t, cohort.Filter(requests, "afternoon", names))
}
