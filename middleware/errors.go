package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"coursetrack/apperr"
)

// ErrorResponse writes err in the JSON envelope with the status its type
// maps to. Backend failures are logged and reported without detail.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		if len(ve.Fields) == 0 {
			return JsonResponse(c, fiber.StatusUnprocessableEntity, false, ve.Error(), nil)
		}
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, ve.Error(), ve.FieldMap())
	}

	switch {
	case apperr.IsNotFound(err):
		return JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case apperr.IsConflict(err):
		return JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case apperr.IsForbidden(err):
		return JsonResponse(c, fiber.StatusForbidden, false, err.Error(), nil)
	case apperr.IsBackend(err):
		zap.L().Error("backend error",
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err),
		)
		return JsonResponse(c, fiber.StatusServiceUnavailable, false, "Service temporarily unavailable", nil)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonResponse(c, fe.Code, false, fe.Message, nil)
	}

	zap.L().Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error", nil)
}

// FiberErrorHandler adapts ErrorResponse to fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return ErrorResponse(c, err)
}
