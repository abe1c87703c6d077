package middleware

import (
	"errors"
	"time"

	"vriksh/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Prometheus records request duration by method, matched route and status.
func Prometheus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(c.Method(), route, status, time.Since(start).Seconds())
		return err
	}
}
