package middlewares

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"brideal-backend/quote"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		// 1) Fiber errors (use their status code + message)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		// 2) Validation errors (422 + per-field info)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := make(map[string]string, len(ve))
			for _, f := range ve {
				out[f.Field()] = f.Tag()
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "validation failed",
				"errors":  out,
			})
		}

		// 3) Deal builder/codec contract violations
		switch {
		case errors.Is(err, quote.ErrMissingRequiredField), errors.Is(err, quote.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case errors.Is(err, quote.ErrCorruptDraft):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
		}

		// 4) Unknown errors (500)
		log.Error("internal error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}
}
