package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursetrack/models/course"
)

func uintPtr(v uint) *uint { return &v }

func lessons(courseID, chapterID uint, ids ...uint) []course.Lesson {
	out := make([]course.Lesson, 0, len(ids))
	for _, id := range ids {
		out = append(out, course.Lesson{ID: id, CourseID: courseID, ChapterID: chapterID, ContentType: course.ContentVideo})
	}
	return out
}

func done(studentID uint, at time.Time, lessonIDs ...uint) []course.LessonProgress {
	out := make([]course.LessonProgress, 0, len(lessonIDs))
	for i, id := range lessonIDs {
		ts := at.Add(time.Duration(i) * time.Minute)
		out = append(out, course.LessonProgress{StudentID: studentID, LessonID: id, IsCompleted: true, CompletedAt: &ts})
	}
	return out
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 5, 0},
		{3, 5, 60},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{7, 5, 100},
		{-1, 5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.completed, tt.total), "Percentage(%d, %d)", tt.completed, tt.total)
	}
}

func TestPercentageBounds(t *testing.T) {
	for total := 0; total <= 120; total++ {
		prev := 0
		for completed := 0; completed <= total; completed++ {
			p := Percentage(completed, total)
			require.GreaterOrEqual(t, p, 0)
			require.LessOrEqual(t, p, 100)
			require.GreaterOrEqual(t, p, prev, "monotonic in completed for total=%d", total)
			prev = p
		}
	}
}

func TestAggregateZeroLessonCourse(t *testing.T) {
	snap := Snapshot{
		Enrollments: []course.Enrollment{{StudentID: 1, CourseID: 9}},
	}
	report := Aggregate(snap, Filter{})
	require.Len(t, report.Courses, 1)
	p := report.Courses[0]
	assert.Equal(t, 0, p.TotalLessons)
	assert.Equal(t, 0, p.ProgressPercentage)
	assert.False(t, p.IsComplete())
	assert.Nil(t, p.LastActivity)
}

func TestAggregateScenario(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Enrollments: []course.Enrollment{{StudentID: 1, CourseID: 10}},
		Lessons:     lessons(10, 100, 1, 2, 3, 4, 5),
		Progress:    done(1, base, 1, 2, 3),
	}

	p, ok := Aggregate(snap, Filter{}).Course(1, 10)
	require.True(t, ok)
	assert.Equal(t, 5, p.TotalLessons)
	assert.Equal(t, 3, p.CompletedLessons)
	assert.Equal(t, 60, p.ProgressPercentage)
	assert.False(t, p.IsComplete())
	require.NotNil(t, p.LastActivity)
	assert.Equal(t, base.Add(2*time.Minute), *p.LastActivity)

	snap.Progress = append(snap.Progress, done(1, base.Add(time.Hour), 4, 5)...)
	p, ok = Aggregate(snap, Filter{}).Course(1, 10)
	require.True(t, ok)
	assert.Equal(t, 100, p.ProgressPercentage)
	assert.True(t, p.IsComplete())
	assert.Equal(t, base.Add(time.Hour+time.Minute), *p.LastActivity)
}

func TestAggregateIgnoresForeignAndIncompleteRows(t *testing.T) {
	snap := Snapshot{
		Enrollments: []course.Enrollment{{StudentID: 1, CourseID: 10}},
		Lessons:     lessons(10, 100, 1, 2),
		Progress: append(done(1, time.Now(), 1, 1, 99),
			course.LessonProgress{StudentID: 1, LessonID: 2, IsCompleted: false}),
	}
	p, ok := Aggregate(snap, Filter{}).Course(1, 10)
	require.True(t, ok)
	assert.Equal(t, 1, p.CompletedLessons, "duplicate rows, deleted lessons and incomplete rows must not count")
	assert.Equal(t, 50, p.ProgressPercentage)
	assert.LessOrEqual(t, p.CompletedLessons, p.TotalLessons)
}

func TestAggregateStudentSummaryAndFilters(t *testing.T) {
	cohort := "evening"
	base := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Enrollments: []course.Enrollment{
			{StudentID: 2, CourseID: 20},
			{StudentID: 1, CourseID: 20, CohortName: &cohort},
			{StudentID: 1, CourseID: 10},
		},
		Lessons: append(append(lessons(10, 100, 1, 2), lessons(20, 200, 3, 4)...), lessons(20, 201, 5, 6)...),
		Progress: append(append(done(1, base, 1, 2), done(1, base.Add(48*time.Hour), 3)...),
			done(2, base.Add(72*time.Hour), 3, 4, 5, 6)...),
	}

	report := Aggregate(snap, Filter{})
	require.Len(t, report.Courses, 3)
	assert.Equal(t, uint(1), report.Courses[0].StudentID)
	assert.Equal(t, uint(10), report.Courses[0].CourseID)
	assert.Equal(t, uint(20), report.Courses[1].CourseID)
	assert.Equal(t, uint(2), report.Courses[2].StudentID)

	require.Len(t, report.Students, 2)
	s1 := report.Students[0]
	assert.Equal(t, 6, s1.TotalLessons)
	assert.Equal(t, 3, s1.CompletedLessons)
	assert.Equal(t, 50, s1.ProgressPercentage)
	assert.Equal(t, base.Add(48*time.Hour), *s1.LastActivity)
	assert.Equal(t, &cohort, s1.Courses[1].CohortName)

	chapters := s1.Courses[1].Chapters
	require.Len(t, chapters, 2)
	assert.Equal(t, ChapterProgress{ChapterID: 200, TotalLessons: 2, CompletedLessons: 1, ProgressPercentage: 50}, chapters[0])
	assert.Equal(t, ChapterProgress{ChapterID: 201, TotalLessons: 2, CompletedLessons: 0, ProgressPercentage: 0}, chapters[1])

	only := Aggregate(snap, Filter{StudentID: uintPtr(2)})
	require.Len(t, only.Students, 1)
	assert.Equal(t, 100, only.Students[0].ProgressPercentage)

	byCourse := Aggregate(snap, Filter{CourseID: uintPtr(20)})
	assert.Len(t, byCourse.Courses, 2)
}

func TestAggregateIsIdempotent(t *testing.T) {
	snap := Snapshot{
		Enrollments: []course.Enrollment{{StudentID: 3, CourseID: 10}, {StudentID: 1, CourseID: 10}},
		Lessons:     append(lessons(10, 100, 1, 2, 3), lessons(10, 101, 4)...),
		Progress:    append(done(1, time.Now(), 1, 4), done(3, time.Now(), 2)...),
	}
	first := Aggregate(snap, Filter{})
	second := Aggregate(snap, Filter{})
	assert.Equal(t, first, second)
}

func TestAggregateMonotonic(t *testing.T) {
	all := []uint{1, 2, 3, 4, 5, 6, 7}
	snap := Snapshot{
		Enrollments: []course.Enrollment{{StudentID: 1, CourseID: 10}},
		Lessons:     lessons(10, 100, all...),
	}
	prev := -1
	for i := range all {
		snap.Progress = done(1, time.Now(), all[:i+1]...)
		p, ok := Aggregate(snap, Filter{}).Course(1, 10)
		require.True(t, ok)
		assert.GreaterOrEqual(t, p.ProgressPercentage, prev)
		prev = p.ProgressPercentage
	}
	assert.Equal(t, 100, prev)
}
