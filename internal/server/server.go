// Package server exposes the quiz over a small JSON API. It renders
// nothing and keeps no cookie state; clients carry their own user id after
// login.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/example/vocabquiz/internal/auth"
	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/quiz"
)

// Server wires the quiz manager and collaborators to HTTP handlers
type Server struct {
	auth  *auth.Service
	quiz  *quiz.Manager
	users *database.UserRepository
}

// New creates a server with default collaborators
func New() *Server {
	return &Server{
		auth:  auth.NewService(),
		quiz:  quiz.NewManager(),
		users: database.NewUserRepository(),
	}
}

// Routes returns the API mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/signup", s.handleSignup)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/quiz/start", s.handleQuizStart)
	mux.HandleFunc("/api/quiz/answer", s.handleQuizAnswer)
	mux.HandleFunc("/api/quiz/summary", s.handleQuizSummary)
	mux.HandleFunc("/api/quiz/complete", s.handleQuizComplete)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/telegram/link", s.handleTelegramLink)
	mux.HandleFunc("/api/admin/import", s.handleAdminImport)
	return mux
}

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP statuses: validation input 400,
// duplicate username 409, unknown ids 404, bad credentials 401, the rest
// 500 (transient store errors included — callers may retry those whole
// operations safely).
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrDuplicateUsername):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
