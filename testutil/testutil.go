// Package testutil builds throwaway SQLite-backed stores for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"coursetrack/backend/gormstore"
	"coursetrack/database"
	"coursetrack/models"
	"coursetrack/models/course"
)

// NewStore returns a migrated store over a fresh database file in t.TempDir().
func NewStore(t testing.TB) *gormstore.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coursetrack.db")
	db, err := database.Open(sqlite.Open(path), logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	store := gormstore.New(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// User inserts a user with the given id and role.
func User(t testing.TB, s *gormstore.Store, id uint, role string) models.User {
	t.Helper()
	u := models.User{
		ID:    id,
		Name:  fmt.Sprintf("User %d", id),
		Email: fmt.Sprintf("user%d@example.com", id),
		Role:  role,
	}
	require.NoError(t, s.SaveUser(context.Background(), &u))
	return u
}

// Course is a seeded course with one chapter holding its lessons.
type Course struct {
	Course  course.Course
	Chapter course.Chapter
	Lessons []course.Lesson
}

// SeedCourse creates an approved course owned by teacherID with n video lessons.
func SeedCourse(t testing.TB, s *gormstore.Store, teacherID uint, title string, n int) Course {
	t.Helper()
	ctx := context.Background()

	c := course.Course{TeacherID: teacherID, Title: title, Status: course.CourseApproved}
	require.NoError(t, s.CreateCourse(ctx, &c))

	ch := course.Chapter{CourseID: c.ID, Title: title + " basics", OrderIndex: 1}
	require.NoError(t, s.CreateChapter(ctx, &ch))

	lessons := make([]course.Lesson, 0, n)
	for i := 0; i < n; i++ {
		l := course.Lesson{
			CourseID:    c.ID,
			ChapterID:   ch.ID,
			Title:       fmt.Sprintf("%s lesson %d", title, i+1),
			ContentType: course.ContentVideo,
			OrderIndex:  i + 1,
		}
		require.NoError(t, s.CreateLesson(ctx, &l))
		lessons = append(lessons, l)
	}
	return Course{Course: c, Chapter: ch, Lessons: lessons}
}

// Quiz adds a quiz lesson to the seeded course.
func Quiz(t testing.TB, s *gormstore.Store, c Course, title string, passing int) course.Lesson {
	t.Helper()
	l := course.Lesson{
		CourseID:          c.Course.ID,
		ChapterID:         c.Chapter.ID,
		Title:             title,
		ContentType:       course.ContentQuiz,
		OrderIndex:        len(c.Lessons) + 1,
		PassingPercentage: passing,
	}
	require.NoError(t, s.CreateLesson(context.Background(), &l))
	return l
}

// Enroll enrolls the student without a cohort.
func Enroll(t testing.TB, s *gormstore.Store, studentID, courseID uint) course.Enrollment {
	t.Helper()
	e := course.Enrollment{StudentID: studentID, CourseID: courseID}
	require.NoError(t, s.CreateEnrollment(context.Background(), &e))
	return e
}

// Complete marks the given lessons complete for the student.
func Complete(t testing.TB, s *gormstore.Store, studentID uint, lessons ...course.Lesson) {
	t.Helper()
	for _, l := range lessons {
		require.NoError(t, s.UpsertLessonProgress(context.Background(), studentID, l.ID, true))
	}
}
