package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

// SessionRepository handles database operations for quiz sessions and their
// items.
type SessionRepository struct{}

// NewSessionRepository creates a new repository instance
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// StartOrResume returns the active (not completed) session for the user and
// local date, creating one if none exists. A partial unique index on
// (user_id, date_local) for active sessions makes the create path safe under
// concurrent calls: the loser of the race re-reads the winner's row.
func (r *SessionRepository) StartOrResume(userID int64, dateLocal string) (int64, error) {
	findQuery := DB.Rebind(`
		SELECT id FROM sessions
		WHERE user_id = ? AND date_local = ? AND completed = ?
		ORDER BY id DESC LIMIT 1
	`)

	var id int64
	err := DB.Get(&id, findQuery, userID, dateLocal, false)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up session: %w", err)
	}

	if DB.DriverName() == "postgres" {
		err = DB.QueryRow(
			DB.Rebind("INSERT INTO sessions (user_id, date_local) VALUES (?, ?) RETURNING id"),
			userID, dateLocal,
		).Scan(&id)
	} else {
		var res sql.Result
		res, err = DB.Exec("INSERT INTO sessions (user_id, date_local) VALUES (?, ?)", userID, dateLocal)
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		if isUniqueConstraintErr(err) {
			// Concurrent start created it first
			if gerr := DB.Get(&id, findQuery, userID, dateLocal, false); gerr == nil {
				return id, nil
			}
		}
		return 0, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Get returns a session by id
func (r *SessionRepository) Get(sessionID int64) (*models.Session, error) {
	var s models.Session
	query := DB.Rebind("SELECT * FROM sessions WHERE id = ?")
	if err := DB.Get(&s, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// CreateItems bulk-inserts the session's items with their positions.
// Accepts a transaction or the global DB.
func (r *SessionRepository) CreateItems(ext sqlx.Ext, sessionID int64, items []models.QuizItem) error {
	query := ext.Rebind(`
		INSERT INTO session_items (session_id, word_id, position)
		VALUES (?, ?, ?)
	`)
	for _, it := range items {
		if _, err := ext.Exec(query, sessionID, it.WordID, it.Position); err != nil {
			return fmt.Errorf("failed to create session item %d: %w", it.Position, err)
		}
	}
	return nil
}

// GetItems returns a session's items ordered by position
func (r *SessionRepository) GetItems(sessionID int64) ([]models.SessionItem, error) {
	var items []models.SessionItem
	query := DB.Rebind("SELECT * FROM session_items WHERE session_id = ? ORDER BY position ASC")
	if err := DB.Select(&items, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session items: %w", err)
	}
	return items, nil
}

// itemForAnswer is the item/word join needed to grade one answer.
type itemForAnswer struct {
	WordID int64  `db:"word_id"`
	Text   string `db:"text"`
}

// ItemForAnswer returns the word id and correct text for the item at the
// given position. Items are addressed by position rather than word id so a
// word appearing twice in one session stays unambiguous.
func (r *SessionRepository) ItemForAnswer(ext sqlx.Ext, sessionID int64, position int) (int64, string, error) {
	var row itemForAnswer
	query := ext.Rebind(`
		SELECT si.word_id, w.text
		FROM session_items si JOIN words w ON w.id = si.word_id
		WHERE si.session_id = ? AND si.position = ?
	`)
	if err := sqlx.Get(ext, &row, query, sessionID, position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", fmt.Errorf("session %d position %d: %w", sessionID, position, ErrNotFound)
		}
		return 0, "", fmt.Errorf("failed to get session item: %w", err)
	}
	return row.WordID, row.Text, nil
}

// UpdateItemAnswer records the user's answer on one item. Returns
// ErrNotFound when no row matched so a bad id cannot silently no-op.
func (r *SessionRepository) UpdateItemAnswer(ext sqlx.Ext, sessionID int64, position int, userAnswer string, correct bool) error {
	query := ext.Rebind(`
		UPDATE session_items SET user_answer = ?, correct = ?
		WHERE session_id = ? AND position = ?
	`)
	res, err := ext.Exec(query, userAnswer, correct, sessionID, position)
	if err != nil {
		return fmt.Errorf("failed to update session item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %d position %d: %w", sessionID, position, ErrNotFound)
	}
	return nil
}

// Complete marks the session as completed. Completing an already completed
// session is a no-op, not an error; completion is terminal.
func (r *SessionRepository) Complete(sessionID int64) error {
	query := DB.Rebind("UPDATE sessions SET completed = ? WHERE id = ?")
	res, err := DB.Exec(query, true, sessionID)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check completion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %d: %w", sessionID, ErrNotFound)
	}
	return nil
}

// summaryRow is the item/word join used by Summarize.
type summaryRow struct {
	WordID     int64          `db:"word_id"`
	Text       string         `db:"text"`
	Definition string         `db:"definition"`
	Correct    sql.NullBool   `db:"correct"`
	UserAnswer sql.NullString `db:"user_answer"`
}

// Summarize joins the session's items with the catalog in position order and
// partitions them into correct and missed.
func (r *SessionRepository) Summarize(sessionID int64) (*models.SessionSummary, error) {
	var rows []summaryRow
	query := DB.Rebind(`
		SELECT si.word_id, w.text, w.definition, si.correct, si.user_answer
		FROM session_items si JOIN words w ON w.id = si.word_id
		WHERE si.session_id = ?
		ORDER BY si.position ASC
	`)
	if err := DB.Select(&rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to summarize session: %w", err)
	}

	summary := &models.SessionSummary{
		Total: len(rows),
		Wrong: make([]models.MissedWord, 0),
	}
	for _, row := range rows {
		if row.Correct.Valid && row.Correct.Bool {
			summary.Correct++
			continue
		}
		summary.Wrong = append(summary.Wrong, models.MissedWord{
			WordID:     row.WordID,
			Word:       row.Text,
			Definition: row.Definition,
			UserAnswer: row.UserAnswer.String,
		})
	}
	return summary, nil
}
