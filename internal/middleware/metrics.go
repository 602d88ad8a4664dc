package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"bloglist/internal/metrics"
)

// Metrics records request counts and durations by route. It must run outside
// RequestLogger so that errors have already been written as responses.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		status := strconv.Itoa(c.Response().StatusCode())
		m.HTTPRequestsTotal.WithLabelValues(path, c.Method(), status).Inc()
		m.HTTPRequestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
