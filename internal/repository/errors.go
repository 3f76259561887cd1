package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base error for lookups that matched no row. The typed
// variants below all wrap it, so callers can match either the specific kind
// or the family with errors.Is.
var ErrNotFound = errors.New("not found")

var (
	// ErrUserNotFound is returned when a user id or name matches no account.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)

	// ErrGroupNotFound is returned when a group id matches no group.
	ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)
)
