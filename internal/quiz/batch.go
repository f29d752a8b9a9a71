package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

const (
	// DefaultBatchSize is the number of items in a full daily round
	DefaultBatchSize = 20
	// DistractorCount is the number of wrong options per item
	DistractorCount = 4
)

// Builder assembles multiple-choice batches from the catalog. Selection is
// pure random filtering of words unseen today; Leitner boxes influence
// reporting only, not which words appear.
type Builder struct {
	words *database.WordRepository
	rnd   *rand.Rand
}

// NewBuilder creates a batch builder
func NewBuilder() *Builder {
	return &Builder{
		words: database.NewWordRepository(),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildBatch selects up to size words not yet served to the user today and
// builds one multiple-choice item per word. A short batch is a valid
// outcome when the catalog runs thin, not an error.
func (b *Builder) BuildBatch(userID int64, dateLocal string, size int) ([]models.QuizItem, error) {
	words, err := b.words.RandomUnseen(userID, dateLocal, size)
	if err != nil {
		return nil, fmt.Errorf("failed to pick batch words: %w", err)
	}

	items := make([]models.QuizItem, 0, len(words))
	for i, w := range words {
		item, err := b.buildItem(w)
		if err != nil {
			return nil, err
		}
		item.Position = i + 1
		items = append(items, item)
	}
	return items, nil
}

// buildItem fetches distractors for one word and shuffles the option list
// so the correct answer's position is unpredictable.
func (b *Builder) buildItem(w models.Word) (models.QuizItem, error) {
	distractors, err := b.words.RandomDistractors(w.ID, DistractorCount, w.PartOfSpeech)
	if err != nil {
		return models.QuizItem{}, fmt.Errorf("failed to get distractors for word %d: %w", w.ID, err)
	}

	// Near-duplicate catalog entries can surface the same text twice; keep
	// each option text at most once per item.
	options := make([]string, 0, len(distractors)+1)
	seen := map[string]bool{w.Text: true}
	for _, d := range distractors {
		if seen[d] {
			continue
		}
		seen[d] = true
		options = append(options, d)
	}
	options = append(options, w.Text)
	b.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return models.QuizItem{
		WordID:       w.ID,
		Question:     w.Definition,
		Answer:       w.Text,
		Options:      options,
		PartOfSpeech: w.PartOfSpeech,
	}, nil
}
