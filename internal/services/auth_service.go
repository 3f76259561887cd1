// Package services provides the business logic layer of the messenger
// backend. This file implements credential verification for login.
package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/jonesmarquelle/messenger/internal/models"
	"github.com/jonesmarquelle/messenger/internal/repository"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so responses do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService verifies user credentials against stored bcrypt hashes.
type AuthService struct {
	userRepo *repository.UserRepository
}

// NewAuthService creates an AuthService using the given user repository.
func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Authenticate looks up the account by username and verifies the password
// against its bcrypt hash. The comparison is constant-time.
//
// Returns ErrInvalidCredentials when either step fails; database errors
// propagate unchanged.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByName(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// HashPassword hashes a plaintext password with the given bcrypt cost.
// Used by the seeder and account creation.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
