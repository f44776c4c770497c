package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"coursetrack/backend"
	"coursetrack/models/course"
	"coursetrack/services/progress"
)

// GetCourseCompletions computes the completion rollup with the same
// aggregator the HTTP views use, so both agree on rounding and grouping.
func (s *Store) GetCourseCompletions(ctx context.Context) ([]course.CourseCompletion, error) {
	enrollments, err := s.ListEnrollments(ctx, backend.EnrollmentFilter{})
	if err != nil {
		return nil, err
	}
	lessons, err := s.ListLessons(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.ListLessonProgress(ctx, backend.ProgressFilter{})
	if err != nil {
		return nil, err
	}
	certs, err := s.ListCertificates(ctx, backend.CertificateFilter{})
	if err != nil {
		return nil, err
	}

	type pair struct{ student, course uint }
	byPair := make(map[pair]course.Certificate, len(certs))
	for _, c := range certs {
		byPair[pair{c.StudentID, c.CourseID}] = c
	}

	report := progress.Aggregate(progress.Snapshot{Enrollments: enrollments, Lessons: lessons, Progress: rows}, progress.Filter{})
	out := make([]course.CourseCompletion, 0, len(report.Courses))
	for _, p := range report.Courses {
		cc := course.CourseCompletion{StudentID: p.StudentID, CourseID: p.CourseID, Completed: p.IsComplete()}
		if cc.Completed {
			cc.CompletionDate = p.LastActivity
		}
		if cert, ok := byPair[pair{p.StudentID, p.CourseID}]; ok {
			status, url := cert.Status, cert.CertificateURL
			cc.CertificateStatus = &status
			if url != "" {
				cc.CertificateURL = &url
			}
		}
		out = append(out, cc)
	}
	return out, nil
}

func (s *Store) GetCertificate(ctx context.Context, studentID, courseID uint) (course.Certificate, error) {
	var c course.Certificate
	err := first(s.conn(ctx).Where("student_id = ? AND course_id = ?", studentID, courseID), &c, "certificate", nil)
	return c, err
}

func (s *Store) ListCertificates(ctx context.Context, f backend.CertificateFilter) ([]course.Certificate, error) {
	q := s.conn(ctx).Model(&course.Certificate{})
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var certs []course.Certificate
	if err := q.Order("id asc").Find(&certs).Error; err != nil {
		return nil, wrap("list certificates", err)
	}
	return certs, nil
}

func (s *Store) CreateCertificate(ctx context.Context, c *course.Certificate) error {
	if c.Status == "" {
		c.Status = course.CertificatePending
	}
	return wrap("create certificate", s.conn(ctx).Create(c).Error)
}

// ApproveCertificate upserts the approved state; an existing certificate
// number is kept.
func (s *Store) ApproveCertificate(ctx context.Context, in backend.Approval) (course.Certificate, error) {
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	approvedBy := in.ApprovedBy
	cert := course.Certificate{
		StudentID:         in.StudentID,
		CourseID:          in.CourseID,
		CertificateNumber: in.Number,
		Status:            course.CertificateApproved,
		CertificateURL:    in.CertificateURL,
		ApprovedAt:        &at,
		ApprovedBy:        &approvedBy,
		Notes:             in.Notes,
	}

	updates := clause.AssignmentColumns([]string{"status", "certificate_url", "approved_at", "approved_by", "notes", "updated_at"})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "certificate_number"},
		Value:  gorm.Expr("COALESCE(NULLIF(certificates.certificate_number, ''), excluded.certificate_number)"),
	})

	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoUpdates: updates,
	}).Create(&cert).Error
	if err != nil {
		return course.Certificate{}, wrap("approve certificate", err)
	}
	return s.GetCertificate(ctx, in.StudentID, in.CourseID)
}

func (s *Store) RejectCertificate(ctx context.Context, studentID, courseID uint, reason string) error {
	res := s.conn(ctx).Model(&course.Certificate{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Updates(map[string]any{"status": course.CertificateRejected, "notes": reason, "updated_at": time.Now().UTC()})
	return affected(res, "reject certificate", "certificate", nil)
}
