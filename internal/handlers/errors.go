// Package handlers implements the HTTP endpoints of the messenger backend.
// This file maps errors from the lower layers onto HTTP responses: validation
// problems are 400s, missing referents 404s, lost transactional races 409s,
// and everything else a logged 500.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonesmarquelle/messenger/internal/repository"
	"github.com/jonesmarquelle/messenger/internal/security"
	"github.com/jonesmarquelle/messenger/internal/services"
)

// PostgreSQL error codes the handlers translate into client-visible statuses.
const (
	pgForeignKeyViolation  = "23503"
	pgNotNullViolation     = "23502"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// APIError is the JSON error payload for every failed request.
type APIError struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
	Status int    `json:"status"`
}

// respondError writes the response for err. Write operations referencing a
// missing user or group surface as foreign-key violations from the store;
// those are reported as not-found rather than server failures, since the
// client named a row that does not exist.
func respondError(c *fiber.Ctx, logger *security.Logger, err error) error {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ErrInvalidAction):
		return writeError(c, fiber.StatusBadRequest, err, "")

	case errors.Is(err, services.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, err, "")

	case errors.Is(err, repository.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, err, "")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation, pgNotNullViolation:
			return writeError(c, fiber.StatusNotFound, repository.ErrNotFound, "referenced row does not exist")
		case pgSerializationFailure, pgDeadlockDetected:
			return writeError(c, fiber.StatusConflict, err, "concurrent update, retry the request")
		}
	}

	if logger != nil {
		logger.Error("request failed", err)
	}
	return writeError(c, fiber.StatusInternalServerError, err, "")
}

func writeError(c *fiber.Ctx, status int, err error, reason string) error {
	return c.Status(status).JSON(APIError{
		Error:  err.Error(),
		Reason: reason,
		Status: status,
	})
}
