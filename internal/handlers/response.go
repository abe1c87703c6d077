package handlers

import (
	"vriksh/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const msgInvalidJSON = "Invalid JSON in request body"

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindAuth:
		return fiber.StatusUnauthorized
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the standard error body.
func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// respondError maps err to a status. Client errors carry their own message;
// server errors are logged and answered with fallback only.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error, fallback string) error {
	status := statusFor(apperrors.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("kind", apperrors.KindOf(err).String()).Msg("request failed")
		return fail(c, status, fallback)
	}
	return fail(c, status, apperrors.PublicMessage(err, fallback))
}
