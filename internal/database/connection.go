package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect establishes a connection to the database.
// If databaseURL is set the bot uses PostgreSQL, otherwise a local
// SQLite file under the data directory.
func Connect(databaseURL string) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error

	if databaseURL != "" {
		db, err = sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %v", err)
		}
	} else {
		// Create data directory if it doesn't exist
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}

		dbPath := filepath.Join(dataDir, "language_learning.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			username TEXT,
			language_level TEXT DEFAULT 'A1',
			profile_type TEXT DEFAULT 'basic',
			grammar_progress INTEGER DEFAULT 0,
			vocab_progress INTEGER DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create dictionary table. Uniqueness of (user_id, spanish_word) is
	// enforced at the application layer, not by the schema.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS dictionary (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER,
			spanish_word TEXT,
			russian_translation TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create dictionary table: %v", err)
	}

	return nil
}
