package middleware_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesmarquelle/messenger/internal/middleware"
)

// TestAuthRequired_NoSession rejects unauthenticated requests with a JSON 401.
func TestAuthRequired_NoSession(t *testing.T) {
	store := session.New()

	app := fiber.New()
	app.Use(middleware.AuthRequired(store))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "unauthorized", body["error"])
	assert.Equal(t, float64(fiber.StatusUnauthorized), body["status"])
}

// TestAuthRequired_WithSession lets a logged-in request through and exposes
// the user identity in locals.
func TestAuthRequired_WithSession(t *testing.T) {
	store := session.New()

	app := fiber.New()

	// Login route creates the session the protected route requires.
	app.Post("/login", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		require.NoError(t, err)
		sess.Set("user_id", "u-1")
		sess.Set("user_name", "testUserA")
		require.NoError(t, sess.Save())
		return c.SendStatus(fiber.StatusOK)
	})

	protected := app.Group("/", middleware.AuthRequired(store))
	protected.Get("/protected", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId":   c.Locals("user_id"),
			"userName": c.Locals("user_name"),
		})
	})

	loginResp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	defer loginResp.Body.Close()
	cookie := loginResp.Header.Get("Set-Cookie")
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-1", body["userId"])
	assert.Equal(t, "testUserA", body["userName"])
}
