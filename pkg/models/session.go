package models

import (
	"database/sql"
	"time"
)

// Session is one round of quiz items for a user on a local date. At most one
// session per (user, date) may be active (completed = false) at a time.
type Session struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	DateLocal string    `json:"date_local" db:"date_local"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionItem is one question slot within a session. UserAnswer and Correct
// stay NULL until the user answers that position.
type SessionItem struct {
	ID         int64          `json:"id" db:"id"`
	SessionID  int64          `json:"session_id" db:"session_id"`
	WordID     int64          `json:"word_id" db:"word_id"`
	Position   int            `json:"position" db:"position"`
	UserAnswer sql.NullString `json:"user_answer" db:"user_answer"`
	Correct    sql.NullBool   `json:"correct" db:"correct"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// MissedWord is one incorrectly answered item in a session summary.
type MissedWord struct {
	WordID     int64  `json:"word_id" db:"word_id"`
	Word       string `json:"word" db:"word"`
	Definition string `json:"definition" db:"definition"`
	UserAnswer string `json:"user_answer" db:"user_answer"`
}

// SessionSummary partitions a session's items into correct and missed,
// preserving presentation order for the missed list.
type SessionSummary struct {
	Total   int          `json:"total"`
	Correct int          `json:"correct"`
	Wrong   []MissedWord `json:"wrong"`
}
