package database

import (
	"fmt"

	"github.com/example/vocabbot/pkg/models"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// VocabularyGoal is the dictionary size that counts as 100% progress
const VocabularyGoal = 1000

// DictionaryRepository handles database operations for learned word pairs
type DictionaryRepository struct {
	db    *sqlx.DB
	users *UserRepository
}

// NewDictionaryRepository creates a new repository instance
func NewDictionaryRepository(db *sqlx.DB) *DictionaryRepository {
	return &DictionaryRepository{db: db, users: NewUserRepository(db)}
}

// GetByUser returns all word pairs owned by the user
func (r *DictionaryRepository) GetByUser(userID int64) ([]models.WordPair, error) {
	var pairs []models.WordPair
	query := rebind(r.db, "SELECT id, user_id, spanish_word, russian_translation FROM dictionary WHERE user_id = ? ORDER BY id")
	err := r.db.Select(&pairs, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary: %v", err)
	}
	return pairs, nil
}

// GetSourceWords returns the set of Spanish words the user already owns
func (r *DictionaryRepository) GetSourceWords(userID int64) (map[string]bool, error) {
	var words []string
	query := rebind(r.db, "SELECT spanish_word FROM dictionary WHERE user_id = ?")
	err := r.db.Select(&words, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get source words: %v", err)
	}
	existing := make(map[string]bool, len(words))
	for _, w := range words {
		existing[w] = true
	}
	return existing, nil
}

// HasWord reports whether the user already owns the given Spanish word
func (r *DictionaryRepository) HasWord(userID int64, word string) (bool, error) {
	var count int
	query := rebind(r.db, "SELECT COUNT(*) FROM dictionary WHERE user_id = ? AND spanish_word = ?")
	err := r.db.Get(&count, query, userID, word)
	if err != nil {
		return false, fmt.Errorf("failed to check word: %v", err)
	}
	return count > 0, nil
}

// Count returns the number of word pairs stored for the user
func (r *DictionaryRepository) Count(userID int64) (int, error) {
	var count int
	query := rebind(r.db, "SELECT COUNT(*) FROM dictionary WHERE user_id = ?")
	err := r.db.Get(&count, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count dictionary: %v", err)
	}
	return count, nil
}

// AddWords inserts the given pairs for the user, skipping any Spanish word
// already present, then recomputes the vocabulary progress percentage.
// Each statement commits independently.
func (r *DictionaryRepository) AddWords(userID int64, pairs []models.WordPair) error {
	insert := rebind(r.db, "INSERT INTO dictionary (user_id, spanish_word, russian_translation) VALUES (?, ?, ?)")

	for _, pair := range pairs {
		exists, err := r.HasWord(userID, pair.Word)
		if err != nil {
			return err
		}
		if exists {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"word":    pair.Word,
			}).Info("word already in dictionary, skipping")
			continue
		}
		if _, err := r.db.Exec(insert, userID, pair.Word, pair.Translation); err != nil {
			return fmt.Errorf("failed to insert word '%s': %v", pair.Word, err)
		}
	}

	return r.RecomputeVocabProgress(userID)
}

// RecomputeVocabProgress recalculates and persists the vocabulary progress
// percentage from the current dictionary size.
func (r *DictionaryRepository) RecomputeVocabProgress(userID int64) error {
	count, err := r.Count(userID)
	if err != nil {
		return err
	}
	return r.users.SetVocabProgress(userID, VocabProgressPercent(count))
}

// VocabProgressPercent converts a dictionary size to a progress percentage,
// capped at 100.
func VocabProgressPercent(wordCount int) int {
	progress := wordCount * 100 / VocabularyGoal
	if progress > 100 {
		progress = 100
	}
	return progress
}
