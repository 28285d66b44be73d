package models

import "fmt"

// WordPair represents a Spanish word with its Russian translation
type WordPair struct {
	ID          int    `json:"id" db:"id"`
	UserID      int64  `json:"user_id" db:"user_id"`
	Word        string `json:"word" db:"spanish_word"`
	Translation string `json:"translation" db:"russian_translation"`
}

// String renders the pair in the "word - translation" list format
func (p WordPair) String() string {
	return fmt.Sprintf("%s - %s", p.Word, p.Translation)
}
