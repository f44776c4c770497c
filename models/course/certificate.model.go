package course

import "time"

const (
	CertificatePending  = "pending"
	CertificateApproved = "approved"
	CertificateRejected = "rejected"
)

// Certificate tracks issuance for one (student, course) pair.
// Approved certificates always carry a CertificateURL.
type Certificate struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	StudentID         uint       `json:"student_id" gorm:"not null;uniqueIndex:idx_certificate_student_course"`
	CourseID          uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_certificate_student_course;index"`
	CertificateNumber string     `json:"certificate_number"`
	Status            string     `json:"status" gorm:"default:'pending';index"` // pending, approved, rejected
	CertificateURL    string     `json:"certificate_url"`
	ApprovedAt        *time.Time `json:"approved_at"`
	ApprovedBy        *uint      `json:"approved_by"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CourseCompletion is the read-only completion rollup for an enrollment
type CourseCompletion struct {
	StudentID         uint       `json:"student_id"`
	CourseID          uint       `json:"course_id"`
	Completed         bool       `json:"completed"`
	CompletionDate    *time.Time `json:"completion_date"`
	CertificateStatus *string    `json:"certificate_status"`
	CertificateURL    *string    `json:"certificate_url"`
}
