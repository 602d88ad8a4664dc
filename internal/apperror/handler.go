package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalMessage = "internal server error"

// Status maps a kind onto an HTTP status. Conflicts are reported as 400.
func Status(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// Handler is the fiber error handler of last resort. Every error returned by a
// route ends up here and is written as {"error": message}.
func Handler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// A classified error wins over any fiber error it wraps.
		var appErr *Error
		if !errors.As(err, &appErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			log.Error("unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalMessage})
		}

		status := Status(appErr.Kind)
		if appErr.Kind == KindInternal {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(status).JSON(fiber.Map{"error": internalMessage})
		}
		return c.Status(status).JSON(fiber.Map{"error": appErr.Message})
	}
}
