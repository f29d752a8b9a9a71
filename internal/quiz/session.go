package quiz

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/leitner"
	"github.com/example/vocabquiz/pkg/models"
)

// State is the lifecycle of a daily session
type State int

const (
	// StateNone means no session exists for the (user, date)
	StateNone State = iota
	// StateActive means a session exists and has unanswered items
	StateActive
	// StateCompleted is terminal; the next quiz request starts a new round
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCompleted:
		return "completed"
	default:
		return "none"
	}
}

// QuizSession is one in-flight round, owned by the caller and passed through
// the interaction loop rather than held in ambient state.
type QuizSession struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	DateLocal string            `json:"date_local"`
	State     State             `json:"state"`
	Items     []models.QuizItem `json:"items"`

	answered map[int]bool
}

// Next returns the first unanswered item, or false when the round is done
func (q *QuizSession) Next() (models.QuizItem, bool) {
	for _, it := range q.Items {
		if !q.answered[it.Position] {
			return it, true
		}
	}
	return models.QuizItem{}, false
}

// MarkAnswered records locally that a position has been answered
func (q *QuizSession) MarkAnswered(position int) {
	if q.answered == nil {
		q.answered = make(map[int]bool)
	}
	q.answered[position] = true
}

// Manager drives the session lifecycle: start or resume the day's round,
// grade answers, summarize and complete.
type Manager struct {
	sessions *database.SessionRepository
	words    *database.WordRepository
	exposure *database.ExposureRepository
	attempts *database.AttemptRepository
	builder  *Builder

	// BatchSize is the number of items per new round
	BatchSize int
	// Now is overridable for tests
	Now func() time.Time
}

// NewManager creates a session manager with default batch size
func NewManager() *Manager {
	return &Manager{
		sessions:  database.NewSessionRepository(),
		words:     database.NewWordRepository(),
		exposure:  database.NewExposureRepository(),
		attempts:  database.NewAttemptRepository(),
		builder:   NewBuilder(),
		BatchSize: DefaultBatchSize,
		Now:       time.Now,
	}
}

// Start returns the user's active session for the local date, creating and
// populating a fresh one when none exists. Finalizing a new batch records
// the served words and inserts the session items in one transaction, so a
// session can never be visible without its exposures.
func (m *Manager) Start(userID int64) (*QuizSession, error) {
	dateLocal := LocalDate(m.Now())

	sessionID, err := m.sessions.StartOrResume(userID, dateLocal)
	if err != nil {
		return nil, err
	}

	existing, err := m.sessions.GetItems(sessionID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return m.resume(sessionID, userID, dateLocal, existing)
	}

	batch, err := m.builder.BuildBatch(userID, dateLocal, m.BatchSize)
	if err != nil {
		return nil, err
	}
	wordIDs := make([]int64, len(batch))
	for i, it := range batch {
		wordIDs[i] = it.WordID
	}
	err = database.WithTx(func(tx *sqlx.Tx) error {
		if err := m.exposure.RecordServed(tx, userID, wordIDs, dateLocal); err != nil {
			return err
		}
		return m.sessions.CreateItems(tx, sessionID, batch)
	})
	if err != nil {
		return nil, err
	}

	return &QuizSession{
		ID:        sessionID,
		UserID:    userID,
		DateLocal: dateLocal,
		State:     StateActive,
		Items:     batch,
	}, nil
}

// resume rebuilds presentable items for a session that already has rows.
// Option lists are not persisted, so distractors are regenerated; questions,
// answers and positions stay stable.
func (m *Manager) resume(sessionID, userID int64, dateLocal string, rows []models.SessionItem) (*QuizSession, error) {
	q := &QuizSession{
		ID:        sessionID,
		UserID:    userID,
		DateLocal: dateLocal,
		State:     StateActive,
		Items:     make([]models.QuizItem, 0, len(rows)),
		answered:  make(map[int]bool),
	}
	for _, row := range rows {
		word, err := m.words.GetByID(row.WordID)
		if err != nil {
			return nil, err
		}
		item, err := m.builder.buildItem(*word)
		if err != nil {
			return nil, err
		}
		item.Position = row.Position
		q.Items = append(q.Items, item)
		if row.UserAnswer.Valid {
			q.answered[row.Position] = true
		}
	}
	return q, nil
}

// RecordAnswer grades the answer at a session position, updates the item
// and appends the Leitner attempt in a single transaction. Returns whether
// the answer was correct. A position that doesn't exist fails with
// database.ErrNotFound.
func (m *Manager) RecordAnswer(userID, sessionID int64, position int, userAnswer string, responseTimeMs *int64) (bool, error) {
	dateLocal := LocalDate(m.Now())
	var correct bool

	err := database.WithTx(func(tx *sqlx.Tx) error {
		wordID, text, err := m.sessions.ItemForAnswer(tx, sessionID, position)
		if err != nil {
			return err
		}
		correct = userAnswer == text

		if err := m.sessions.UpdateItemAnswer(tx, sessionID, position, userAnswer, correct); err != nil {
			return err
		}

		box, err := m.attempts.LatestBox(tx, userID, wordID)
		if err != nil {
			return err
		}
		attempt := models.Attempt{
			UserID:    userID,
			WordID:    wordID,
			DateLocal: dateLocal,
			Correct:   correct,
			Box:       leitner.Advance(leitner.Clamp(box), correct),
		}
		if responseTimeMs != nil {
			attempt.ResponseTimeMs = sql.NullInt64{Int64: *responseTimeMs, Valid: true}
		}
		return m.attempts.Insert(tx, &attempt)
	})
	if err != nil {
		return false, fmt.Errorf("failed to record answer: %w", err)
	}
	return correct, nil
}

// Summarize returns the session's results in presentation order
func (m *Manager) Summarize(sessionID int64) (*models.SessionSummary, error) {
	return m.sessions.Summarize(sessionID)
}

// Complete marks the session completed. Terminal and idempotent: completing
// twice leaves completed=true; the next Start that day opens a new round.
func (m *Manager) Complete(sessionID int64) error {
	return m.sessions.Complete(sessionID)
}

// SessionState reports the lifecycle state of a session id
func (m *Manager) SessionState(sessionID int64) (State, error) {
	s, err := m.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return StateNone, nil
		}
		return StateNone, err
	}
	if s.Completed {
		return StateCompleted, nil
	}
	return StateActive, nil
}

// UserStats aggregates the user's all-time attempt history
func (m *Manager) UserStats(userID int64) (*models.UserStats, error) {
	return m.attempts.UserStats(userID)
}
