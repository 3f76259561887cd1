// Package handlers implements the HTTP endpoints of the messenger backend.
// This file handles login and logout with cookie sessions.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/jonesmarquelle/messenger/internal/security"
	"github.com/jonesmarquelle/messenger/internal/services"
)

// AuthHandler manages login, logout, and session lifecycle.
type AuthHandler struct {
	store       *session.Store
	authService *services.AuthService
	logger      *security.Logger
}

// NewAuthHandler creates an AuthHandler with its dependencies.
func NewAuthHandler(store *session.Store, authService *services.AuthService, logger *security.Logger) *AuthHandler {
	return &AuthHandler{
		store:       store,
		authService: authService,
		logger:      logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates credentials and creates a session.
//
//	POST /api/login {"username": ..., "password": ...}
//
// Responds with the authenticated user on success; both unknown usernames
// and wrong passwords yield the same 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, h.logger, &ValidationError{Missing: []string{"username", "password"}})
	}

	missing := []string{}
	if req.Username == "" {
		missing = append(missing, "username")
	}
	if req.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return respondError(c, h.logger, &ValidationError{Missing: missing})
	}

	user, err := h.authService.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		if h.logger != nil {
			h.logger.SecurityEvent(security.EventLoginFailure, nil, req.Username, c.IP(), c.Get("User-Agent"), nil)
		}
		return respondError(c, h.logger, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	sess.Set("user_id", user.ID)
	sess.Set("user_name", user.Name)
	if err := sess.Save(); err != nil {
		return respondError(c, h.logger, err)
	}

	if h.logger != nil {
		userID := user.ID
		h.logger.SecurityEvent(security.EventLoginSuccess, &userID, user.Name, c.IP(), c.Get("User-Agent"), nil)
	}

	return c.JSON(user)
}

// Logout destroys the session. Safe to call without one.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	userID, _ := sess.Get("user_id").(string)
	userName, _ := sess.Get("user_name").(string)

	if err := sess.Destroy(); err != nil {
		return respondError(c, h.logger, err)
	}

	if h.logger != nil && userID != "" {
		h.logger.SecurityEvent(security.EventLogout, &userID, userName, c.IP(), c.Get("User-Agent"), nil)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
