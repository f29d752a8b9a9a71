package models

import (
	"database/sql"
	"time"
)

// Attempt is one append-only answer record. Box carries the resulting
// Leitner box after this attempt; the current box for a (user, word) pair is
// the box of that pair's most recent attempt.
type Attempt struct {
	ID             int64         `json:"id" db:"id"`
	UserID         int64         `json:"user_id" db:"user_id"`
	WordID         int64         `json:"word_id" db:"word_id"`
	DateLocal      string        `json:"date_local" db:"date_local"`
	Correct        bool          `json:"correct" db:"correct"`
	ResponseTimeMs sql.NullInt64 `json:"response_time_ms" db:"response_time_ms"`
	Box            int           `json:"box" db:"box"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// UserStats aggregates a user's all-time attempt history. Accuracy is a
// percentage rounded to one decimal, 0.0 when there are no attempts.
// Mastered counts words whose historical max box reached 4 or higher.
type UserStats struct {
	Attempts int     `json:"attempts"`
	Accuracy float64 `json:"accuracy"`
	Mastered int     `json:"mastered"`
}
