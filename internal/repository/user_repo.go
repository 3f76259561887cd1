// Package repository implements the database access layer for the messenger
// backend. This file handles user account lookups and creation.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonesmarquelle/messenger/internal/database"
	"github.com/jonesmarquelle/messenger/internal/models"
)

// UserRepository handles user-related database operations. Users are created
// out-of-band (seeder, registration) and read-only to the messaging flow.
type UserRepository struct {
	db database.DBInterface
}

// NewUserRepository creates a new UserRepository backed by the given pool.
func NewUserRepository(db database.DBInterface) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their opaque id.
//
// Returns ErrUserNotFound if no account matches.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, avatar_url, pw_hash, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.AvatarURL, &user.PasswordHash, &user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByName retrieves the first user whose display name matches, ordered by
// id so repeated calls resolve the same account. Display names are unique in
// the schema, but the ordering keeps the "first match" contract explicit.
//
// Returns ErrUserNotFound if no account matches.
func (r *UserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT id, username, avatar_url, pw_hash, created_at FROM users WHERE username = $1 ORDER BY id LIMIT 1`

	var user models.User
	err := r.db.QueryRow(ctx, query, name).Scan(
		&user.ID, &user.Name, &user.AvatarURL, &user.PasswordHash, &user.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Create inserts a new user. A random UUID is assigned when the caller did
// not provide an id. Password must be pre-hashed with bcrypt.
//
// Side Effects: populates user.ID and user.CreatedAt.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, username, pw_hash, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	return r.db.QueryRow(ctx, query, user.ID, user.Name, user.PasswordHash, user.AvatarURL).
		Scan(&user.CreatedAt)
}
