// Package auth is a thin wrapper around salted one-way password hashing for
// signup and sign-in. It owns no quiz state.
package auth

import (
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

// ErrInvalidCredentials is returned when the username is unknown or the
// password does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrValidation covers bad signup input: empty username/password or a
// mismatched confirmation.
var ErrValidation = errors.New("invalid signup input")

// Service wraps user creation and password verification
type Service struct {
	users *database.UserRepository
}

// NewService creates an auth service
func NewService() *Service {
	return &Service{users: database.NewUserRepository()}
}

// CreateUser validates input, hashes the password and inserts the user.
// Returns database.ErrDuplicateUsername when the username is taken.
func (s *Service) CreateUser(username, password, confirm, email string, isAdmin bool) (int64, error) {
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if password != confirm {
		return 0, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}
	if email != "" {
		user.Email = sql.NullString{String: email, Valid: true}
	}
	if err := s.users.Create(user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// VerifyPassword checks the password against the stored hash and returns
// the user on success. Unknown usernames and wrong passwords both yield
// ErrInvalidCredentials.
func (s *Service) VerifyPassword(username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
