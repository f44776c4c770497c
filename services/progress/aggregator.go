// Package progress rolls lesson completion up into course and student
// percentages. Aggregate is pure; Service only fetches the snapshot.
package progress

import (
	"sort"
	"time"

	"coursetrack/models/course"
)

// Percentage returns round(completed/total*100) with halves rounded up.
// It is 0 when total is 0 and always within [0, 100].
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return (200*completed + total) / (2 * total)
}

// Snapshot is the already-fetched data a report is computed from.
type Snapshot struct {
	Enrollments []course.Enrollment
	Lessons     []course.Lesson
	Progress    []course.LessonProgress
}

// Filter selects one student (nil = all) and optionally one course.
type Filter struct {
	StudentID *uint
	CourseID  *uint
}

func (f Filter) match(studentID, courseID uint) bool {
	if f.StudentID != nil && *f.StudentID != studentID {
		return false
	}
	if f.CourseID != nil && *f.CourseID != courseID {
		return false
	}
	return true
}

type ChapterProgress struct {
	ChapterID          uint `json:"chapter_id"`
	TotalLessons       int  `json:"total_lessons"`
	CompletedLessons   int  `json:"completed_lessons"`
	ProgressPercentage int  `json:"progress_percentage"`
}

// CourseProgress is the rollup for one enrollment.
type CourseProgress struct {
	StudentID          uint              `json:"student_id"`
	CourseID           uint              `json:"course_id"`
	CohortName         *string           `json:"cohort_name"`
	EnrolledAt         time.Time         `json:"enrolled_at"`
	TotalLessons       int               `json:"total_lessons"`
	CompletedLessons   int               `json:"completed_lessons"`
	ProgressPercentage int               `json:"progress_percentage"`
	LastActivity       *time.Time        `json:"last_activity"`
	Chapters           []ChapterProgress `json:"chapters"`
}

// IsComplete reports whether every lesson of a non-empty course is done.
func (p CourseProgress) IsComplete() bool {
	return p.TotalLessons > 0 && p.CompletedLessons == p.TotalLessons
}

// StudentProgress sums every enrollment of one student.
type StudentProgress struct {
	StudentID          uint             `json:"student_id"`
	Courses            []CourseProgress `json:"courses"`
	TotalLessons       int              `json:"total_lessons"`
	CompletedLessons   int              `json:"completed_lessons"`
	ProgressPercentage int              `json:"progress_percentage"`
	LastActivity       *time.Time       `json:"last_activity"`
}

type Report struct {
	Courses  []CourseProgress  `json:"courses"`
	Students []StudentProgress `json:"students"`
}

// Course looks up one (student, course) row of the report.
func (r Report) Course(studentID, courseID uint) (CourseProgress, bool) {
	for _, p := range r.Courses {
		if p.StudentID == studentID && p.CourseID == courseID {
			return p, true
		}
	}
	return CourseProgress{}, false
}

type pairKey struct {
	student uint
	course  uint
}

type pairState struct {
	done      map[uint]struct{}
	lastSeen  *time.Time
	byChapter map[uint]int
}

// Aggregate computes the report for every enrollment matching f. Only
// completed rows whose lesson belongs to the course's current lesson set
// count, so CompletedLessons never exceeds TotalLessons. The output is sorted
// by student then course, so the same snapshot always yields the same report.
func Aggregate(s Snapshot, f Filter) Report {
	lessonIndex := make(map[uint]course.Lesson, len(s.Lessons))
	totals := make(map[uint]int)
	chapterTotals := make(map[uint]map[uint]int)
	for _, l := range s.Lessons {
		if _, dup := lessonIndex[l.ID]; dup {
			continue
		}
		lessonIndex[l.ID] = l
		totals[l.CourseID]++
		if chapterTotals[l.CourseID] == nil {
			chapterTotals[l.CourseID] = make(map[uint]int)
		}
		chapterTotals[l.CourseID][l.ChapterID]++
	}

	states := make(map[pairKey]*pairState)
	for _, row := range s.Progress {
		if !row.IsCompleted {
			continue
		}
		lesson, ok := lessonIndex[row.LessonID]
		if !ok {
			continue
		}
		key := pairKey{student: row.StudentID, course: lesson.CourseID}
		st := states[key]
		if st == nil {
			st = &pairState{done: make(map[uint]struct{}), byChapter: make(map[uint]int)}
			states[key] = st
		}
		if _, seen := st.done[row.LessonID]; !seen {
			st.done[row.LessonID] = struct{}{}
			st.byChapter[lesson.ChapterID]++
		}
		st.lastSeen = latest(st.lastSeen, row.CompletedAt)
	}

	seen := make(map[pairKey]bool)
	report := Report{Courses: []CourseProgress{}, Students: []StudentProgress{}}
	for _, e := range s.Enrollments {
		key := pairKey{student: e.StudentID, course: e.CourseID}
		if seen[key] || !f.match(e.StudentID, e.CourseID) {
			continue
		}
		seen[key] = true

		p := CourseProgress{
			StudentID:    e.StudentID,
			CourseID:     e.CourseID,
			CohortName:   e.CohortName,
			EnrolledAt:   e.EnrolledAt,
			TotalLessons: totals[e.CourseID],
			Chapters:     []ChapterProgress{},
		}
		st := states[key]
		if st != nil {
			p.CompletedLessons = len(st.done)
			p.LastActivity = latest(nil, st.lastSeen)
		}
		for chapterID, total := range chapterTotals[e.CourseID] {
			done := 0
			if st != nil {
				done = st.byChapter[chapterID]
			}
			p.Chapters = append(p.Chapters, ChapterProgress{
				ChapterID:          chapterID,
				TotalLessons:       total,
				CompletedLessons:   done,
				ProgressPercentage: Percentage(done, total),
			})
		}
		sort.Slice(p.Chapters, func(i, j int) bool { return p.Chapters[i].ChapterID < p.Chapters[j].ChapterID })
		p.ProgressPercentage = Percentage(p.CompletedLessons, p.TotalLessons)
		report.Courses = append(report.Courses, p)
	}

	sort.Slice(report.Courses, func(i, j int) bool {
		a, b := report.Courses[i], report.Courses[j]
		if a.StudentID != b.StudentID {
			return a.StudentID < b.StudentID
		}
		return a.CourseID < b.CourseID
	})

	for _, p := range report.Courses {
		n := len(report.Students)
		if n == 0 || report.Students[n-1].StudentID != p.StudentID {
			report.Students = append(report.Students, StudentProgress{StudentID: p.StudentID})
			n++
		}
		sp := &report.Students[n-1]
		sp.Courses = append(sp.Courses, p)
		sp.TotalLessons += p.TotalLessons
		sp.CompletedLessons += p.CompletedLessons
		sp.LastActivity = latest(sp.LastActivity, p.LastActivity)
	}
	for i := range report.Students {
		sp := &report.Students[i]
		sp.ProgressPercentage = Percentage(sp.CompletedLessons, sp.TotalLessons)
	}
	return report
}

// latest returns a copy of the later of a and b.
func latest(a, b *time.Time) *time.Time {
	switch {
	case b == nil && a == nil:
		return nil
	case b == nil:
		t := *a
		return &t
	case a == nil || b.After(*a):
		t := *b
		return &t
	default:
		t := *a
		return &t
	}
}
