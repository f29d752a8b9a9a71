package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ExposureRepository records which words were shown to a user on a given
// local date, enforcing no-repeat-within-a-day.
type ExposureRepository struct{}

// NewExposureRepository creates a new repository instance
func NewExposureRepository() *ExposureRepository {
	return &ExposureRepository{}
}

// ServedToday returns the set of word ids already shown to the user on the
// given local date.
func (r *ExposureRepository) ServedToday(userID int64, dateLocal string) (map[int64]bool, error) {
	var ids []int64
	query := DB.Rebind("SELECT word_id FROM user_day_words WHERE user_id = ? AND date_local = ?")
	if err := DB.Select(&ids, query, userID, dateLocal); err != nil {
		return nil, fmt.Errorf("failed to get served words: %w", err)
	}
	served := make(map[int64]bool, len(ids))
	for _, id := range ids {
		served[id] = true
	}
	return served, nil
}

// RecordServed marks word ids as shown to the user today. Duplicate triples
// are silently ignored so retried calls are safe. Accepts a transaction or
// the global DB.
func (r *ExposureRepository) RecordServed(ext sqlx.Ext, userID int64, wordIDs []int64, dateLocal string) error {
	query := ext.Rebind(`
		INSERT INTO user_day_words (user_id, date_local, word_id)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	for _, wid := range wordIDs {
		if _, err := ext.Exec(query, userID, dateLocal, wid); err != nil {
			return fmt.Errorf("failed to record served word %d: %w", wid, err)
		}
	}
	return nil
}
