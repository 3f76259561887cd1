// Package handlers implements the HTTP endpoints of the messenger backend.
// This file serves the read-only users endpoint: the current user's record
// and the sidebar list of their groups with latest-message previews.
package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/security"
)

// UsersHandler serves GET /api/users.
type UsersHandler struct {
	userRepo  *repository.UserRepository
	groupRepo *repository.GroupRepository
	logger    *security.Logger
}

// NewUsersHandler creates a UsersHandler with its repository dependencies.
func NewUsersHandler(userRepo *repository.UserRepository, groupRepo *repository.GroupRepository, logger *security.Logger) *UsersHandler {
	return &UsersHandler{
		userRepo:  userRepo,
		groupRepo: groupRepo,
		logger:    logger,
	}
}

// Get dispatches on the name query parameter:
//
//	GET /api/users?name=user&id=<id>    -> the user record
//	GET /api/users?name=groups&id=<id>  -> the user's groups, each with its
//	                                       latest message (nil when empty)
//
// A missing id is a validation error; an unknown name is an invalid action.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return respondError(c, h.logger, &ValidationError{Missing: []string{"id"}})
	}

	switch name := c.Query("name"); name {
	case "user":
		user, err := h.userRepo.FindByID(c.Context(), id)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(user)

	case "groups":
		groups, err := h.groupRepo.ListByUser(c.Context(), id)
		if err != nil {
			return respondError(c, h.logger, err)
		}
		return c.JSON(groups)

	default:
		return respondError(c, h.logger, fmt.Errorf("%w: %q", ErrInvalidAction, name))
	}
}
