package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/vocabbot/pkg/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles database operations for user profiles
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rebind converts ? placeholders to $ for PostgreSQL if needed
func rebind(db *sqlx.DB, query string) string {
	if db.DriverName() == "postgres" {
		for i := 1; strings.Contains(query, "?"); i++ {
			query = strings.Replace(query, "?", fmt.Sprintf("$%d", i), 1)
		}
	}
	return query
}

// GetByID returns a user profile by Telegram ID, or nil if absent
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	var user models.User
	query := rebind(r.db, "SELECT id, username, language_level, profile_type, grammar_progress, vocab_progress FROM users WHERE id = ?")
	err := r.db.Get(&user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}
	return &user, nil
}

// EnsureUser returns the existing profile or creates one with defaults.
// An existing profile is never overwritten.
func (r *UserRepository) EnsureUser(id int64, username string) (*models.User, error) {
	user, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	query := rebind(r.db, `
		INSERT INTO users (id, username, language_level, profile_type, grammar_progress, vocab_progress)
		VALUES (?, ?, 'A1', 'basic', 0, 0)
	`)
	if _, err := r.db.Exec(query, id, username); err != nil {
		return nil, fmt.Errorf("failed to create user: %v", err)
	}

	return &models.User{
		ID:            id,
		Username:      username,
		LanguageLevel: "A1",
		ProfileType:   "basic",
	}, nil
}

// SetGrammarProgress overwrites the stored grammar progress percentage
func (r *UserRepository) SetGrammarProgress(id int64, value int) error {
	query := rebind(r.db, "UPDATE users SET grammar_progress = ? WHERE id = ?")
	if _, err := r.db.Exec(query, value, id); err != nil {
		return fmt.Errorf("failed to update grammar progress: %v", err)
	}
	return nil
}

// SetVocabProgress overwrites the stored vocabulary progress percentage
func (r *UserRepository) SetVocabProgress(id int64, value int) error {
	query := rebind(r.db, "UPDATE users SET vocab_progress = ? WHERE id = ?")
	if _, err := r.db.Exec(query, value, id); err != nil {
		return fmt.Errorf("failed to update vocab progress: %v", err)
	}
	return nil
}

// GetAllIDs returns the Telegram IDs of every known user
func (r *UserRepository) GetAllIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Select(&ids, "SELECT id FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get user IDs: %v", err)
	}
	return ids, nil
}
