package rest

import (
	"context"
	"net/url"
	"time"

	"coursetrack/apperr"
	"coursetrack/backend"
	"coursetrack/models"
	"coursetrack/models/course"
)

// GetCourseCompletions reads the course_completions view.
func (c *Client) GetCourseCompletions(ctx context.Context) ([]course.CourseCompletion, error) {
	body, err := c.list(ctx, "get course completions", "course_completions", url.Values{"order": {"student_id.asc,course_id.asc"}})
	if err != nil {
		return nil, err
	}
	return decode("get course completions", "course completion", body, completionRow.model)
}

func (c *Client) GetCertificate(ctx context.Context, studentID, courseID uint) (course.Certificate, error) {
	body, err := c.list(ctx, "get certificate", "certificates", url.Values{
		"student_id": {eq(studentID)},
		"course_id":  {eq(courseID)},
		"limit":      {"1"},
	})
	if err != nil {
		return course.Certificate{}, err
	}
	return decodeOne("get certificate", "certificate", nil, body, certificateRow.model)
}

func (c *Client) ListCertificates(ctx context.Context, f backend.CertificateFilter) ([]course.Certificate, error) {
	q := url.Values{"order": {"id.asc"}}
	if f.StudentID != nil {
		q.Set("student_id", eq(*f.StudentID))
	}
	if f.Status != "" {
		q.Set("status", eq(f.Status))
	}
	body, err := c.list(ctx, "list certificates", "certificates", q)
	if err != nil {
		return nil, err
	}
	return decode("list certificates", "certificate", body, certificateRow.model)
}

func (c *Client) CreateCertificate(ctx context.Context, cert *course.Certificate) error {
	if cert.Status == "" {
		cert.Status = course.CertificatePending
	}
	body, err := c.insert(ctx, "create certificate", "certificates", map[string]any{
		"student_id":         cert.StudentID,
		"course_id":          cert.CourseID,
		"certificate_number": cert.CertificateNumber,
		"status":             cert.Status,
		"certificate_url":    cert.CertificateURL,
		"notes":              cert.Notes,
	})
	if err != nil {
		return err
	}
	created, err := decodeOne("create certificate", "certificate", nil, body, certificateRow.model)
	if err != nil {
		return err
	}
	*cert = created
	return nil
}

// ApproveCertificate upserts on (student_id, course_id). An existing
// certificate number is carried over.
func (c *Client) ApproveCertificate(ctx context.Context, in backend.Approval) (course.Certificate, error) {
	const op = "approve certificate"
	at := in.At
	if at.IsZero() {
		at = c.now()
	}

	number := in.Number
	existing, err := c.GetCertificate(ctx, in.StudentID, in.CourseID)
	switch {
	case err == nil && existing.CertificateNumber != "":
		number = existing.CertificateNumber
	case err != nil && !apperr.IsNotFound(err):
		return course.Certificate{}, err
	}

	body, err := c.upsert(ctx, op, "certificates", "student_id,course_id", map[string]any{
		"student_id":         in.StudentID,
		"course_id":          in.CourseID,
		"certificate_number": number,
		"status":             course.CertificateApproved,
		"certificate_url":    in.CertificateURL,
		"approved_at":        at,
		"approved_by":        in.ApprovedBy,
		"notes":              in.Notes,
		"updated_at":         at,
	})
	if err != nil {
		return course.Certificate{}, err
	}
	return decodeOne(op, "certificate", nil, body, certificateRow.model)
}

func (c *Client) RejectCertificate(ctx context.Context, studentID, courseID uint, reason string) error {
	filter := url.Values{"student_id": {eq(studentID)}, "course_id": {eq(courseID)}}
	body, err := c.update(ctx, "reject certificate", "certificates", filter, map[string]any{
		"status":     course.CertificateRejected,
		"notes":      reason,
		"updated_at": c.now(),
	})
	return touched("reject certificate", "certificate", nil, body, err)
}

func (c *Client) GetUser(ctx context.Context, id uint) (models.User, error) {
	body, err := c.list(ctx, "get user", "users", url.Values{"id": {eq(id)}, "limit": {"1"}})
	if err != nil {
		return models.User{}, err
	}
	return decodeOne("get user", "user", id, body, userRow.model)
}

func (c *Client) ListUsers(ctx context.Context, ids ...uint) ([]models.User, error) {
	q := url.Values{"order": {"id.asc"}}
	if len(ids) > 0 {
		q.Set("id", inList(ids))
	}
	body, err := c.list(ctx, "list users", "users", q)
	if err != nil {
		return nil, err
	}
	return decode("list users", "user", body, userRow.model)
}

func (c *Client) TouchUser(ctx context.Context, id uint, at time.Time) error {
	body, err := c.update(ctx, "touch user", "users", url.Values{"id": {eq(id)}}, map[string]any{"last_active_at": at})
	return touched("touch user", "user", id, body, err)
}
