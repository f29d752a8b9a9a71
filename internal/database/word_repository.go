package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabquiz/pkg/models"
)

// WordRepository handles database operations for the vocabulary catalog
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// Count returns the total catalog size
func (r *WordRepository) Count() (int, error) {
	var count int
	if err := DB.Get(&count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int64) (*models.Word, error) {
	var word models.Word
	query := DB.Rebind("SELECT * FROM words WHERE id = ?")
	if err := DB.Get(&word, query, id); err != nil {
		return nil, fmt.Errorf("failed to get word %d: %w", id, ErrNotFound)
	}
	return &word, nil
}

// BulkInsert adds catalog rows in one transaction. Duplicate texts are
// permitted; the catalog has no dedup.
func (r *WordRepository) BulkInsert(words []models.Word) error {
	if len(words) == 0 {
		return nil
	}
	return WithTx(func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			INSERT INTO words (text, definition, part_of_speech, language)
			VALUES (?, ?, ?, ?)
		`)
		for _, w := range words {
			lang := w.Language
			if lang == "" {
				lang = "en"
			}
			if _, err := tx.Exec(query, w.Text, w.Definition, w.PartOfSpeech, lang); err != nil {
				return fmt.Errorf("failed to insert word %q: %w", w.Text, err)
			}
		}
		return nil
	})
}

// RandomDistractors returns up to k word texts distinct from excludeID,
// chosen uniformly at random. When pos is given, same-part-of-speech words
// are preferred and any-part-of-speech words pad the remainder. Texts may
// repeat across calls; there is no cross-question repeat avoidance.
func (r *WordRepository) RandomDistractors(excludeID int64, k int, pos string) ([]string, error) {
	texts := make([]string, 0, k)

	if pos != "" {
		query := DB.Rebind(`
			SELECT text FROM words
			WHERE id <> ? AND part_of_speech = ?
			ORDER BY RANDOM() LIMIT ?
		`)
		if err := DB.Select(&texts, query, excludeID, pos, k); err != nil {
			return nil, fmt.Errorf("failed to get distractors: %w", err)
		}
	}

	if need := k - len(texts); need > 0 {
		var pad []string
		if len(texts) == 0 {
			query := DB.Rebind(`
				SELECT text FROM words
				WHERE id <> ?
				ORDER BY RANDOM() LIMIT ?
			`)
			if err := DB.Select(&pad, query, excludeID, need); err != nil {
				return nil, fmt.Errorf("failed to pad distractors: %w", err)
			}
		} else {
			// Exclude texts already picked so the pad can't repeat them
			query, args, err := sqlx.In(`
				SELECT text FROM words
				WHERE id <> ? AND text NOT IN (?)
				ORDER BY RANDOM() LIMIT ?
			`, excludeID, texts, need)
			if err != nil {
				return nil, fmt.Errorf("failed to build pad query: %w", err)
			}
			if err := DB.Select(&pad, DB.Rebind(query), args...); err != nil {
				return nil, fmt.Errorf("failed to pad distractors: %w", err)
			}
		}
		texts = append(texts, pad...)
	}

	if len(texts) > k {
		texts = texts[:k]
	}
	return texts, nil
}

// RandomUnseen returns up to limit words not yet served to the user on the
// given local date, uniformly at random. Fewer than limit rows is a normal
// outcome on a thin or exhausted catalog.
func (r *WordRepository) RandomUnseen(userID int64, dateLocal string, limit int) ([]models.Word, error) {
	var words []models.Word
	query := DB.Rebind(`
		SELECT * FROM words
		WHERE id NOT IN (
			SELECT word_id FROM user_day_words WHERE user_id = ? AND date_local = ?
		)
		ORDER BY RANDOM() LIMIT ?
	`)
	if err := DB.Select(&words, query, userID, dateLocal, limit); err != nil {
		return nil, fmt.Errorf("failed to get unseen words: %w", err)
	}
	return words, nil
}
