package courseValidator

import (
	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	CohortName *string `json:"cohort_name" validate:"omitempty,min=1,max=100"`
}

func EnrollCourse() fiber.Handler { return Body[EnrollRequest]() }

type CohortJoinRequest struct {
	CohortName string `json:"cohort_name" validate:"required,max=100"`
}

func RequestCohort() fiber.Handler { return Body[CohortJoinRequest]() }

type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

func Reason() fiber.Handler { return Body[ReasonRequest]() }

type CohortRequestsQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Search string `query:"search" validate:"max=200"`
}

func CohortRequests() fiber.Handler { return Query[CohortRequestsQuery]() }
