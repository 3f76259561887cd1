package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesmarquelle/messenger/internal/handlers"
	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/services"
)

// hash of "passwordA" at cost 10, precomputed so tests stay fast.
const passwordAHash = "$2a$10$Ld7JJOCUPJDBv.rkyn5IRe/N1FiDLYU6d0KBZCqW.Km3E/UPO0FfK"

func newAuthApp(t *testing.T) (*fiber.App, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	authService := services.NewAuthService(repository.NewUserRepository(mock))
	store := session.New()
	handler := handlers.NewAuthHandler(store, authService, nil)

	app := fiber.New()
	app.Post("/api/login", handler.Login)
	app.Post("/api/logout", handler.Logout)
	return app, mock
}

// TestLogin authenticates valid credentials, sets a session cookie, and
// responds with the user record.
func TestLogin(t *testing.T) {
	app, mock := newAuthApp(t)

	mock.ExpectQuery("SELECT(.+)FROM users WHERE username(.+)LIMIT 1").
		WithArgs("testUserA").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "avatar_url", "pw_hash", "created_at"}).
			AddRow("u-1", "testUserA", nil, passwordAHash, testTime))

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"testUserA","password":"passwordA"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"), "login should set a session cookie")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "testUserA", body["name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLogin_WrongPassword yields the same 401 as an unknown username.
func TestLogin_WrongPassword(t *testing.T) {
	app, mock := newAuthApp(t)

	mock.ExpectQuery("SELECT(.+)FROM users WHERE username(.+)LIMIT 1").
		WithArgs("testUserA").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "avatar_url", "pw_hash", "created_at"}).
			AddRow("u-1", "testUserA", nil, passwordAHash, testTime))

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"testUserA","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLogin_UnknownUser yields 401 without leaking whether the account exists.
func TestLogin_UnknownUser(t *testing.T) {
	app, mock := newAuthApp(t)

	mock.ExpectQuery("SELECT(.+)FROM users WHERE username(.+)LIMIT 1").
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "avatar_url", "pw_hash", "created_at"}))

	req := httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"username":"ghost","password":"whatever"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var apiErr apiErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Equal(t, "invalid username or password", apiErr.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLogin_MissingFields aggregates the missing credentials into one 400.
func TestLogin_MissingFields(t *testing.T) {
	app, mock := newAuthApp(t)

	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var apiErr apiErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	assert.Contains(t, apiErr.Error, "username")
	assert.Contains(t, apiErr.Error, "password")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestLogout succeeds with 204 even without an existing session.
func TestLogout(t *testing.T) {
	app, _ := newAuthApp(t)

	req := httptest.NewRequest("POST", "/api/logout", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
