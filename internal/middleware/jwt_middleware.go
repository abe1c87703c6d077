package middleware

import (
	"errors"

	"vriksh/internal/apperrors"
	"vriksh/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which the verified caller is stored in fiber.Ctx locals.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// AuthRequired is a Fiber middleware that rejects requests without a valid
// bearer token. The caller identity comes only from the verified claims.
func AuthRequired(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := tokens.Verify(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			msg := services.ErrInvalidToken.Message
			var appErr *apperrors.Error
			if errors.As(err, &appErr) {
				msg = appErr.Message
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   msg,
			})
		}

		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		return c.Next()
	}
}

// UserID returns the verified caller id set by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}
