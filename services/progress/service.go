package progress

import (
	"context"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models/course"
)

// Store is the slice of the backend the aggregator reads from.
type Store interface {
	ListEnrollments(ctx context.Context, f backend.EnrollmentFilter) ([]course.Enrollment, error)
	ListLessons(ctx context.Context, courseIDs ...uint) ([]course.Lesson, error)
	ListLessonProgress(ctx context.Context, f backend.ProgressFilter) ([]course.LessonProgress, error)
}

// Service is the single place list and detail views get progress from.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Snapshot fetches the enrollments, lessons and progress rows matching f.
func (s *Service) Snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	enrollments, err := s.store.ListEnrollments(ctx, backend.EnrollmentFilter{StudentID: f.StudentID, CourseID: f.CourseID})
	if err != nil {
		return Snapshot{}, err
	}
	if len(enrollments) == 0 {
		return Snapshot{}, nil
	}

	courseIDs := make([]uint, 0, len(enrollments))
	seen := make(map[uint]bool)
	for _, e := range enrollments {
		if !seen[e.CourseID] {
			seen[e.CourseID] = true
			courseIDs = append(courseIDs, e.CourseID)
		}
	}

	lessons, err := s.store.ListLessons(ctx, courseIDs...)
	if err != nil {
		return Snapshot{}, err
	}
	rows, err := s.store.ListLessonProgress(ctx, backend.ProgressFilter{StudentID: f.StudentID, CourseID: f.CourseID})
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Enrollments: enrollments, Lessons: lessons, Progress: rows}, nil
}

func (s *Service) Report(ctx context.Context, f Filter) (Report, error) {
	snap, err := s.Snapshot(ctx, f)
	if err != nil {
		return Report{}, err
	}
	return Aggregate(snap, f), nil
}

// Course returns one enrollment's progress; NotFound when the student is not enrolled.
func (s *Service) Course(ctx context.Context, studentID, courseID uint) (CourseProgress, error) {
	report, err := s.Report(ctx, Filter{StudentID: &studentID, CourseID: &courseID})
	if err != nil {
		return CourseProgress{}, err
	}
	p, ok := report.Course(studentID, courseID)
	if !ok {
		return CourseProgress{}, apperr.NotFound("enrollment", nil)
	}
	return p, nil
}

// Student returns the summed progress of every enrollment of one student.
// A student without enrollments gets an empty, zeroed summary.
func (s *Service) Student(ctx context.Context, studentID uint) (StudentProgress, error) {
	report, err := s.Report(ctx, Filter{StudentID: &studentID})
	if err != nil {
		return StudentProgress{}, err
	}
	if len(report.Students) == 0 {
		return StudentProgress{StudentID: studentID, Courses: []CourseProgress{}}, nil
	}
	return report.Students[0], nil
}
