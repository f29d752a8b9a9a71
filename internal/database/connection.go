package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// driver ("sqlite" or "postgres"); sqlite is the default.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		db, err = sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
	default:
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			dbPath = filepath.Join(dataDir, "vocabquiz.db")
		}
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on a nil return and
// rolling back otherwise. Multi-statement operations go through here so no
// partial writes become visible to other users.
func WithTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	statements := sqliteSchema
	if DB.DriverName() == "postgres" {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		email TEXT,
		password_hash BLOB NOT NULL,
		is_admin BOOLEAN DEFAULT 0,
		telegram_chat_id INTEGER,
		joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		definition TEXT NOT NULL,
		part_of_speech TEXT DEFAULT '',
		language TEXT DEFAULT 'en',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date_local TEXT NOT NULL,
		completed BOOLEAN DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	// Closes the lookup-then-insert race: two concurrent starts for the same
	// (user, day) cannot both create an active session.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active
		ON sessions(user_id, date_local) WHERE completed = 0`,
	`CREATE TABLE IF NOT EXISTS session_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		user_answer TEXT,
		correct BOOLEAN,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (session_id) REFERENCES sessions(id),
		FOREIGN KEY (word_id) REFERENCES words(id),
		UNIQUE(session_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS user_day_words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date_local TEXT NOT NULL,
		word_id INTEGER NOT NULL,
		UNIQUE(user_id, date_local, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_attempts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		word_id INTEGER NOT NULL,
		date_local TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		response_time_ms INTEGER,
		box INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (word_id) REFERENCES words(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user_word
		ON user_attempts(user_id, word_id, id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT,
		password_hash BYTEA NOT NULL,
		is_admin BOOLEAN DEFAULT FALSE,
		telegram_chat_id BIGINT,
		joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL,
		definition TEXT NOT NULL,
		part_of_speech TEXT DEFAULT '',
		language TEXT DEFAULT 'en',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		date_local TEXT NOT NULL,
		completed BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_active
		ON sessions(user_id, date_local) WHERE completed = FALSE`,
	`CREATE TABLE IF NOT EXISTS session_items (
		id BIGSERIAL PRIMARY KEY,
		session_id BIGINT NOT NULL REFERENCES sessions(id),
		word_id BIGINT NOT NULL REFERENCES words(id),
		position INTEGER NOT NULL,
		user_answer TEXT,
		correct BOOLEAN,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(session_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS user_day_words (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		date_local TEXT NOT NULL,
		word_id BIGINT NOT NULL,
		UNIQUE(user_id, date_local, word_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_attempts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		word_id BIGINT NOT NULL REFERENCES words(id),
		date_local TEXT NOT NULL,
		correct BOOLEAN NOT NULL,
		response_time_ms INTEGER,
		box INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_user_word
		ON user_attempts(user_id, word_id, id)`,
}
