package quiz

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

// setupTestDB connects the global database to a fresh in-memory store
func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { _ = database.Close() })
}

// seedCatalog inserts n generated words and returns their ids
func seedCatalog(t *testing.T, n int) []int64 {
	t.Helper()
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{
			Text:         fmt.Sprintf("word-%02d", i),
			Definition:   fmt.Sprintf("definition of word %d", i),
			PartOfSpeech: "noun",
		}
	}
	require.NoError(t, database.NewWordRepository().BulkInsert(words))

	var ids []int64
	require.NoError(t, database.DB.Select(&ids, "SELECT id FROM words ORDER BY id"))
	return ids
}

// seedUser inserts a user and returns its id
func seedUser(t *testing.T, username string) int64 {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: []byte("x")}
	require.NoError(t, database.NewUserRepository().Create(user))
	return user.ID
}

// testManager returns a manager pinned to a fixed date
func testManager() *Manager {
	m := NewManager()
	m.Now = func() time.Time {
		return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return m
}
