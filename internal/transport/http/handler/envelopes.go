package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookworm-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper. Error bodies carry a
// human-readable message, matching what the mobile client surfaces.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
}

// RequestOTPEnvelope acknowledges an OTP request.
type RequestOTPEnvelope struct {
	Message   string `json:"message"`
	IsNewUser bool   `json:"isNewUser"`
}

// VerifyOTPEnvelope carries the session token and the public user projection
// (the password field is excluded via struct tags).
type VerifyOTPEnvelope struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// FeedEnvelope wraps one page of the book feed.
type FeedEnvelope struct {
	Books       []domain.Book `json:"books"`
	CurrentPage int           `json:"currentPage"`
	TotalBooks  int           `json:"totalBooks"`
	TotalPages  int           `json:"totalPages"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}
