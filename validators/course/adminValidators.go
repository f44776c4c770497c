package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

type ProgressQuery struct {
	StudentID *uint `query:"student_id" validate:"omitempty,min=1"`
	CourseID  *uint `query:"course_id" validate:"omitempty,min=1"`
}

func ProgressFilter() fiber.Handler { return Query[ProgressQuery]() }

type GradesQuery struct {
	Search   string `query:"search" validate:"max=200"`
	CourseID *uint  `query:"course_id" validate:"omitempty,min=1"`
	Format   string `query:"format" validate:"omitempty,oneof=json csv xlsx"`
}

func Grades() fiber.Handler { return Query[GradesQuery]() }

type CertificatesQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

func Certificates() fiber.Handler { return Query[CertificatesQuery]() }

type ApproveCertificateRequest struct {
	StudentID      uint   `json:"student_id" validate:"required"`
	CourseID       uint   `json:"course_id" validate:"required"`
	CertificateURL string `json:"certificate_url" validate:"required,url"`
	Notes          string `json:"notes" validate:"max=2000"`
}

func ApproveCertificate() fiber.Handler { return Body[ApproveCertificateRequest]() }

type RejectCertificateRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	CourseID  uint   `json:"course_id" validate:"required"`
	Reason    string `json:"reason" validate:"required,min=3,max=1000"`
}

func RejectCertificate() fiber.Handler { return Body[RejectCertificateRequest]() }

type AssignCohortRequest struct {
	StudentID  uint   `json:"student_id" validate:"required"`
	CourseID   uint   `json:"course_id" validate:"required"`
	CohortName string `json:"cohort_name" validate:"max=100"`
}

func AssignCohort() fiber.Handler { return Body[AssignCohortRequest]() }

func StudentIDParam() fiber.Handler { return ParamID("user_id", "studentID") }

func RequestIDParam() fiber.Handler { return ParamID("request_id", "requestID") }
