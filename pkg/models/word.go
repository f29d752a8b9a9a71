package models

import "time"

// Word represents a vocabulary catalog entry. Entries are immutable once
// created; duplicate texts are allowed.
type Word struct {
	ID           int64     `json:"id" db:"id"`
	Text         string    `json:"text" db:"text"`
	Definition   string    `json:"definition" db:"definition"`
	PartOfSpeech string    `json:"part_of_speech" db:"part_of_speech"`
	Language     string    `json:"language" db:"language"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
