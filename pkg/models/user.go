package models

import (
	"database/sql"
	"time"
)

// User is the identity boundary for all per-user quiz state.
type User struct {
	ID             int64          `json:"id" db:"id"`
	Username       string         `json:"username" db:"username"`
	Email          sql.NullString `json:"-" db:"email"`
	PasswordHash   []byte         `json:"-" db:"password_hash"`
	IsAdmin        bool           `json:"is_admin" db:"is_admin"`
	TelegramChatID sql.NullInt64  `json:"-" db:"telegram_chat_id"`
	JoinedAt       time.Time      `json:"joined_at" db:"joined_at"`
}
