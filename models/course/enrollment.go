package course

import "time"

// Enrollment associates one student with one course
type Enrollment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course"`
	CourseID   uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_student_course;index"`
	CohortName *string   `json:"cohort_name"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// CohortJoinRequest is a student's request to be placed in a named cohort of a course
type CohortJoinRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"index;not null"`
	CourseID   uint      `json:"course_id" gorm:"index;not null"`
	CohortName string    `json:"cohort_name" gorm:"not null"`
	Status     string    `json:"status" gorm:"default:'pending';index"` // pending, approved, rejected
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
