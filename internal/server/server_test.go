package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/pkg/models"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	require.NoError(t, database.Connect())
	t.Cleanup(func() { _ = database.Close() })

	ts := httptest.NewServer(New().Routes())
	t.Cleanup(ts.Close)
	return ts
}

func seedCatalog(t *testing.T, n int) {
	t.Helper()
	words := make([]models.Word, n)
	for i := range words {
		words[i] = models.Word{
			Text:       fmt.Sprintf("word-%02d", i),
			Definition: fmt.Sprintf("definition of word %d", i),
		}
	}
	require.NoError(t, database.NewWordRepository().BulkInsert(words))
}

func postJSON(t *testing.T, url string, body interface{}, out interface{}) int {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestSignupLoginQuizFlow(t *testing.T) {
	ts := setupTestServer(t)
	seedCatalog(t, 8)

	// Signup
	var signup struct {
		UserID int64 `json:"user_id"`
	}
	status := postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "alice", "password": "pw", "confirm": "pw",
	}, &signup)
	require.Equal(t, http.StatusCreated, status)
	require.Greater(t, signup.UserID, int64(0))

	// Login
	var user models.User
	status = postJSON(t, ts.URL+"/api/login", map[string]string{
		"username": "alice", "password": "pw",
	}, &user)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, signup.UserID, user.ID)

	// Start the day's round
	var start struct {
		SessionID int64  `json:"session_id"`
		DateLocal string `json:"date_local"`
		Items     []struct {
			Position int      `json:"position"`
			Question string   `json:"question"`
			Options  []string `json:"options"`
		} `json:"items"`
	}
	status = postJSON(t, ts.URL+"/api/quiz/start", map[string]int64{
		"user_id": signup.UserID,
	}, &start)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, start.Items, 8)
	assert.NotEmpty(t, start.DateLocal)

	// Answer the first item with one of its options; either branch is a 200
	var answer struct {
		Correct bool `json:"correct"`
	}
	status = postJSON(t, ts.URL+"/api/quiz/answer", map[string]interface{}{
		"user_id":    signup.UserID,
		"session_id": start.SessionID,
		"position":   start.Items[0].Position,
		"answer":     start.Items[0].Options[0],
	}, &answer)
	require.Equal(t, http.StatusOK, status)

	// Summary counts everything unanswered against the user
	resp, err := http.Get(fmt.Sprintf("%s/api/quiz/summary?session_id=%d", ts.URL, start.SessionID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary models.SessionSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 8, summary.Total)

	// Complete
	status = postJSON(t, ts.URL+"/api/quiz/complete", map[string]int64{
		"session_id": start.SessionID,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	// Stats reflect the one graded attempt
	resp, err = http.Get(fmt.Sprintf("%s/api/stats?user_id=%d", ts.URL, signup.UserID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.UserStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats.Attempts)
}

func TestStartHidesAnswers(t *testing.T) {
	ts := setupTestServer(t)
	seedCatalog(t, 5)

	var signup struct {
		UserID int64 `json:"user_id"`
	}
	postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "bob", "password": "pw", "confirm": "pw",
	}, &signup)

	var raw map[string]json.RawMessage
	status := postJSON(t, ts.URL+"/api/quiz/start", map[string]int64{
		"user_id": signup.UserID,
	}, &raw)
	require.Equal(t, http.StatusOK, status)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw["items"], &items))
	require.NotEmpty(t, items)
	for _, it := range items {
		_, leaked := it["answer"]
		assert.False(t, leaked, "item payload must not carry the correct answer")
	}
}

func TestErrorStatusMapping(t *testing.T) {
	ts := setupTestServer(t)

	// Validation error
	status := postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "", "password": "pw", "confirm": "pw",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	// Duplicate username
	postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "carol", "password": "pw", "confirm": "pw",
	}, nil)
	status = postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "carol", "password": "pw", "confirm": "pw",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Bad credentials
	status = postJSON(t, ts.URL+"/api/login", map[string]string{
		"username": "carol", "password": "nope",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Unknown session
	status = postJSON(t, ts.URL+"/api/quiz/complete", map[string]int64{
		"session_id": 4242,
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAdminImportRequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)

	var plain struct {
		UserID int64 `json:"user_id"`
	}
	postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "plain", "password": "pw", "confirm": "pw",
	}, &plain)

	resp, err := http.Post(ts.URL+"/api/admin/import", "application/json",
		bytes.NewReader([]byte(fmt.Sprintf(`{"user_id": %d, "file_path": "nowhere.csv"}`, plain.UserID))))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTelegramLink(t *testing.T) {
	ts := setupTestServer(t)

	var signup struct {
		UserID int64 `json:"user_id"`
	}
	postJSON(t, ts.URL+"/api/signup", map[string]string{
		"username": "dave", "password": "pw", "confirm": "pw",
	}, &signup)

	status := postJSON(t, ts.URL+"/api/telegram/link", map[string]int64{
		"user_id": signup.UserID, "chat_id": 987654,
	}, nil)
	require.Equal(t, http.StatusOK, status)

	targets, err := database.NewUserRepository().GetReminderTargets()
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, int64(987654), targets[0].TelegramChatID.Int64)
}
