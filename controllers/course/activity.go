package controllers

import (
	"github.com/gofiber/fiber/v2"

	"coursetrack/middleware"
)

// Heartbeat records that the current user is active
func (h *Handler) Heartbeat(c *fiber.Ctx) error {
	recorded, err := h.activity.Heartbeat(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity recorded!", fiber.Map{"recorded": recorded})
}
