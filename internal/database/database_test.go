package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/pkg/models"
)

// setupTestDB points the package's global DB at a fresh in-memory sqlite
// database. A single connection keeps every statement on the same in-memory
// store.
func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	DB = db
	require.NoError(t, initializeSchema())
	t.Cleanup(func() {
		_ = db.Close()
		DB = nil
	})
}

// seedWords inserts catalog rows and returns their ids in insert order
func seedWords(t *testing.T, words []models.Word) []int64 {
	t.Helper()
	repo := NewWordRepository()
	require.NoError(t, repo.BulkInsert(words))

	var ids []int64
	require.NoError(t, DB.Select(&ids, "SELECT id FROM words ORDER BY id"))
	require.GreaterOrEqual(t, len(ids), len(words))
	return ids[len(ids)-len(words):]
}

// seedUser inserts a user and returns its id
func seedUser(t *testing.T, username string) int64 {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: []byte("x")}
	require.NoError(t, NewUserRepository().Create(user))
	return user.ID
}
