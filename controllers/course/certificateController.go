package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/backend"
	"coursetrack/middleware"
	"coursetrack/models/course"
	"coursetrack/services/certificate"
	courseValidator "coursetrack/validators/course"
)

// RequestCertificate records a pending certificate once the course is complete
func (h *Handler) RequestCertificate(c *fiber.Ctx) error {
	cert, err := h.certificates.Request(c.UserContext(), middleware.UserID(c), param(c, "courseID"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate request submitted successfully!", cert)
}

type certificateView struct {
	course.Certificate
	CourseTitle string `json:"course_title"`
}

// GetUserCertificates lists the current student's certificates in any state
func (h *Handler) GetUserCertificates(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := middleware.UserID(c)

	all, err := h.backend.ListCertificates(ctx, backend.CertificateFilter{StudentID: &userID})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	titles, err := h.titles(ctx)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	views := make([]certificateView, 0)
	pending := 0
	for _, cert := range all {
		if cert.Status == course.CertificatePending {
			pending++
		}
		views = append(views, certificateView{Certificate: cert, CourseTitle: titles[cert.CourseID]})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates":     views,
		"pending_requests": pending,
	})
}

// GetCompletions returns the completion rollup for every enrollment
func (h *Handler) GetCompletions(c *fiber.Ctx) error {
	rows, err := h.backend.GetCourseCompletions(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completions fetched successfully!", rows)
}

// ListCertificates lists certificates, optionally by status
func (h *Handler) ListCertificates(c *fiber.Ctx) error {
	q := courseValidator.Validated[courseValidator.CertificatesQuery](c)
	status := ""
	if q != nil {
		status = q.Status
	}
	certs, err := h.backend.ListCertificates(c.UserContext(), backend.CertificateFilter{Status: status})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

// ApproveCertificate approves a completed enrollment's certificate
func (h *Handler) ApproveCertificate(c *fiber.Ctx) error {
	reqData := courseValidator.Validated[courseValidator.ApproveCertificateRequest](c)

	cert, err := h.certificates.Approve(c.UserContext(), certificate.ApproveInput{
		StudentID:      reqData.StudentID,
		CourseID:       reqData.CourseID,
		CertificateURL: reqData.CertificateURL,
		Notes:          reqData.Notes,
		ApprovedBy:     middleware.UserID(c),
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate approved successfully!", cert)
}

// RejectCertificate rejects a pending certificate with a reason
func (h *Handler) RejectCertificate(c *fiber.Ctx) error {
	reqData := courseValidator.Validated[courseValidator.RejectCertificateRequest](c)

	err := h.certificates.Reject(c.UserContext(), certificate.RejectInput{
		StudentID: reqData.StudentID,
		CourseID:  reqData.CourseID,
		Reason:    reqData.Reason,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate rejected successfully!", nil)
}
