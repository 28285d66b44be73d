package models

// User represents a Telegram user profile stored by the bot
type User struct {
	ID              int64  `json:"id" db:"id"` // Telegram User ID
	Username        string `json:"username" db:"username"`
	LanguageLevel   string `json:"language_level" db:"language_level"`     // CEFR level, default A1
	ProfileType     string `json:"profile_type" db:"profile_type"`         // basic or other
	GrammarProgress int    `json:"grammar_progress" db:"grammar_progress"` // 0-100
	VocabProgress   int    `json:"vocab_progress" db:"vocab_progress"`     // 0-100, derived from dictionary size
}
