// Package middleware provides HTTP middleware for the messenger backend.
// This file carries the request-scoped observability and protection layers:
// structured request logging, baseline security headers, and per-IP rate
// limiting of sensitive endpoints.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jonesmarquelle/messenger/internal/metrics"
	"github.com/jonesmarquelle/messenger/internal/security"
)

// RequestLogger logs one structured entry per request with method, path,
// status, and latency, and feeds the request counter.
func RequestLogger(logger *security.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
		}

		metrics.ObserveRequest(c.Method(), c.Route().Path, status)
		logger.Request(c.Method(), c.Path(), status, time.Since(start), c.IP())

		return err
	}
}

// SecureHeaders sets baseline hardening headers on every response.
func SecureHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}

// RateLimit rejects requests from clients that exceed the given limiter,
// keyed by client IP. Rejections are logged as security events.
func RateLimit(limiter *security.RateLimiter, logger *security.Logger, endpoint string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter.Allow(c.IP()) {
			return c.Next()
		}

		if logger != nil {
			logger.SecurityEvent(security.EventRateLimitExceeded, nil, endpoint, c.IP(), c.Get("User-Agent"),
				map[string]interface{}{
					"path": c.Path(),
				})
		}

		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":  "rate limit exceeded",
			"status": fiber.StatusTooManyRequests,
		})
	}
}
