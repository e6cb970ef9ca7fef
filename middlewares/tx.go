package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"brideal-backend/database"
)

// RequestTx opens a per-request DB transaction. Order: run AFTER
// IsAuthenticatedHeader() (so userID is present) and AFTER Idempotency() (so
// idempotency records aren't tied to the handler TX). Handlers reach the
// transaction via c.Locals("tx").
func RequestTx(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Error("tx commit failed", zap.Error(e))
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
