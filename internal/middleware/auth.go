// Package middleware provides HTTP middleware for the messenger backend:
// session authentication, request logging, security headers, and rate
// limiting.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthRequired ensures the request carries a valid session. This is the
// entire authorization model: membership checks beyond "logged in" are the
// caller's concern.
//
// Context Locals Set:
//   - user_id: the authenticated user's id (string)
//   - user_name: the user's display name (string)
func AuthRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return unauthorized(c)
		}

		userID, ok := sess.Get("user_id").(string)
		if !ok || userID == "" {
			return unauthorized(c)
		}

		c.Locals("user_id", userID)
		c.Locals("user_name", sess.Get("user_name"))

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":  "unauthorized",
		"status": fiber.StatusUnauthorized,
	})
}
