package models

// QuizItem is one multiple-choice question assembled for a session batch.
// Options holds the correct answer and its distractors in shuffled order.
type QuizItem struct {
	WordID       int64    `json:"word_id"`
	Position     int      `json:"position"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Options      []string `json:"options"`
	PartOfSpeech string   `json:"part_of_speech"`
}
