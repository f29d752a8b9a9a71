package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabquiz/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Create inserts a new user. Returns ErrDuplicateUsername when the username
// is already taken.
func (r *UserRepository) Create(user *models.User) error {
	if DB.DriverName() == "postgres" {
		query := DB.Rebind(`
			INSERT INTO users (username, email, password_hash, is_admin)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`)
		err := DB.QueryRow(query, user.Username, user.Email, user.PasswordHash, user.IsAdmin).Scan(&user.ID)
		if err != nil {
			if isUniqueConstraintErr(err) {
				return ErrDuplicateUsername
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	res, err := DB.Exec(
		"INSERT INTO users (username, email, password_hash, is_admin) VALUES (?, ?, ?, ?)",
		user.Username, user.Email, user.PasswordHash, user.IsAdmin,
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	return nil
}

// GetByID returns a user by id
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	query := DB.Rebind("SELECT * FROM users WHERE id = ?")
	if err := DB.Get(&user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByUsername returns a user by username, or ErrNotFound
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	query := DB.Rebind("SELECT * FROM users WHERE username = ?")
	if err := DB.Get(&user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetReminderTargets returns users who can receive Telegram reminders
func (r *UserRepository) GetReminderTargets() ([]models.User, error) {
	var users []models.User
	if err := DB.Select(&users, "SELECT * FROM users WHERE telegram_chat_id IS NOT NULL"); err != nil {
		return nil, fmt.Errorf("failed to get reminder targets: %w", err)
	}
	return users, nil
}

// SetTelegramChatID links a Telegram chat to the user for reminders
func (r *UserRepository) SetTelegramChatID(userID, chatID int64) error {
	query := DB.Rebind("UPDATE users SET telegram_chat_id = ? WHERE id = ?")
	res, err := DB.Exec(query, chatID, userID)
	if err != nil {
		return fmt.Errorf("failed to set telegram chat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
