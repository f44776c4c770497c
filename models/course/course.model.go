package course

import "time"

const (
	CourseDraft    = "draft"
	CoursePending  = "pending"
	CourseApproved = "approved"
	CourseRejected = "rejected"
)

// Course represents a learning course owned by a teacher
type Course struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	TeacherID    uint      `json:"teacher_id" gorm:"index;not null"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	Status       string    `json:"status" gorm:"default:'draft';index"` // draft, pending, approved, rejected
	ThumbnailURL string    `json:"thumbnail_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Chapter represents a section within a course
type Chapter struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	Title      string    `json:"title" gorm:"not null"`
	OrderIndex int       `json:"order_index" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
