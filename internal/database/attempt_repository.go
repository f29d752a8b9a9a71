package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/internal/leitner"
	"github.com/example/vocabquiz/pkg/models"
)

// AttemptRepository handles the append-only answer log that backs the
// Leitner mastery state.
type AttemptRepository struct{}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{}
}

// LatestBox returns the box carried by the most recent attempt for the
// (user, word) pair, defaulting to 1 for a word never attempted.
func (r *AttemptRepository) LatestBox(ext sqlx.Ext, userID, wordID int64) (int, error) {
	var box int
	query := ext.Rebind(`
		SELECT box FROM user_attempts
		WHERE user_id = ? AND word_id = ?
		ORDER BY id DESC LIMIT 1
	`)
	err := sqlx.Get(ext, &box, query, userID, wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest box: %w", err)
	}
	return box, nil
}

// Insert appends one attempt row carrying the resulting box value
func (r *AttemptRepository) Insert(ext sqlx.Ext, a *models.Attempt) error {
	query := ext.Rebind(`
		INSERT INTO user_attempts (user_id, word_id, date_local, correct, response_time_ms, box)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if _, err := ext.Exec(query, a.UserID, a.WordID, a.DateLocal, a.Correct, a.ResponseTimeMs, a.Box); err != nil {
		return fmt.Errorf("failed to insert attempt: %w", err)
	}
	return nil
}

// UserStats aggregates the user's all-time attempt history. Mastered counts
// words whose historical max box reached 4 or higher; a later reset to box 1
// does not revoke mastery.
func (r *AttemptRepository) UserStats(userID int64) (*models.UserStats, error) {
	var totals struct {
		Attempts int           `db:"attempts"`
		Correct  sql.NullInt64 `db:"correct"`
	}
	query := DB.Rebind(`
		SELECT COUNT(*) AS attempts, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct
		FROM user_attempts WHERE user_id = ?
	`)
	if err := DB.Get(&totals, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get attempt totals: %w", err)
	}

	stats := &models.UserStats{Attempts: totals.Attempts}
	if totals.Attempts > 0 {
		ratio := float64(totals.Correct.Int64) / float64(totals.Attempts)
		stats.Accuracy = math.Round(ratio*1000) / 10
	}

	query = DB.Rebind(`
		SELECT COUNT(*) FROM (
			SELECT word_id, MAX(box) AS max_box
			FROM user_attempts WHERE user_id = ?
			GROUP BY word_id
		) boxes WHERE max_box >= ?
	`)
	if err := DB.Get(&stats.Mastered, query, userID, leitner.MasteredBox); err != nil {
		return nil, fmt.Errorf("failed to count mastered words: %w", err)
	}
	return stats, nil
}

// AnsweredToday reports whether the user has recorded any attempt on the
// given local date. The reminder sweep uses this to skip active users.
func (r *AttemptRepository) AnsweredToday(userID int64, dateLocal string) (bool, error) {
	var count int
	query := DB.Rebind("SELECT COUNT(*) FROM user_attempts WHERE user_id = ? AND date_local = ?")
	if err := DB.Get(&count, query, userID, dateLocal); err != nil {
		return false, fmt.Errorf("failed to check today's attempts: %w", err)
	}
	return count > 0, nil
}
