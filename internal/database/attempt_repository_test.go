package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/pkg/models"
)

func insertAttempt(t *testing.T, userID, wordID int64, correct bool, box int) {
	t.Helper()
	repo := NewAttemptRepository()
	require.NoError(t, repo.Insert(DB, &models.Attempt{
		UserID:    userID,
		WordID:    wordID,
		DateLocal: "2024-01-01",
		Correct:   correct,
		Box:       box,
	}))
}

func TestLatestBoxDefaultsToOne(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	ids := seedWords(t, []models.Word{{Text: "one", Definition: "d"}})

	box, err := NewAttemptRepository().LatestBox(DB, userID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, box)
}

func TestLatestBoxTracksMostRecentAttempt(t *testing.T) {
	setupTestDB(t)
	repo := NewAttemptRepository()
	userID := seedUser(t, "alice")
	ids := seedWords(t, []models.Word{{Text: "one", Definition: "d"}})

	insertAttempt(t, userID, ids[0], true, 2)
	insertAttempt(t, userID, ids[0], true, 3)
	insertAttempt(t, userID, ids[0], false, 1)

	box, err := repo.LatestBox(DB, userID, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, box, "current box is the box of the most recent attempt")
}

func TestUserStatsEmpty(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")

	stats, err := NewAttemptRepository().UserStats(userID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Attempts)
	assert.Equal(t, 0.0, stats.Accuracy)
	assert.Equal(t, 0, stats.Mastered)
}

func TestUserStatsAccuracyOneDecimal(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	ids := seedWords(t, []models.Word{{Text: "one", Definition: "d"}})

	// 2 correct out of 3 = 66.7% after rounding
	insertAttempt(t, userID, ids[0], true, 2)
	insertAttempt(t, userID, ids[0], true, 3)
	insertAttempt(t, userID, ids[0], false, 1)

	stats, err := NewAttemptRepository().UserStats(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Attempts)
	assert.Equal(t, 66.7, stats.Accuracy)
}

func TestUserStatsMasteryIsHighWaterMark(t *testing.T) {
	setupTestDB(t)
	userID := seedUser(t, "alice")
	ids := seedWords(t, []models.Word{
		{Text: "one", Definition: "d"},
		{Text: "two", Definition: "d"},
	})

	// Word one reached box 4 then fell back to 1: still mastered.
	insertAttempt(t, userID, ids[0], true, 4)
	insertAttempt(t, userID, ids[0], false, 1)
	// Word two never got past box 3.
	insertAttempt(t, userID, ids[1], true, 3)

	stats, err := NewAttemptRepository().UserStats(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Mastered)
}

func TestAnsweredToday(t *testing.T) {
	setupTestDB(t)
	repo := NewAttemptRepository()
	userID := seedUser(t, "alice")
	ids := seedWords(t, []models.Word{{Text: "one", Definition: "d"}})

	answered, err := repo.AnsweredToday(userID, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, answered)

	insertAttempt(t, userID, ids[0], true, 2)

	answered, err = repo.AnsweredToday(userID, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, answered)

	answered, err = repo.AnsweredToday(userID, "2024-01-02")
	require.NoError(t, err)
	assert.False(t, answered)
}
