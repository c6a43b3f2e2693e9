// Package apperr holds the error taxonomy shared by services and handlers
// and the JSON helpers used to answer requests.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"formdesk/pkg/logger"
)

var (
	// ErrUnauthorized means no caller identity was attached to the request.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUserNotFound means the external identity has no users row yet.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotFoundOrForbidden covers both a missing form and a form owned by
	// someone else. The two are never told apart.
	ErrNotFoundOrForbidden = errors.New("form not found or not owned by caller")
	// ErrMissingEmail means a users row cannot be created because the
	// identity has no email on record.
	ErrMissingEmail = errors.New("user email not found")
)

// BadRequest is returned for malformed or invalid input, before any write.
type BadRequest struct {
	Message string
}

func (e *BadRequest) Error() string { return e.Message }

// NewBadRequest builds a *BadRequest carrying a user-facing message.
func NewBadRequest(msg string) error {
	return &BadRequest{Message: msg}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// WriteError answers with {"error": msg}.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg})
}

// Unauthorized answers 401 with the standard message.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "Unauthorized")
}

// Status maps err to an HTTP status and the message the caller may see.
// Errors outside the taxonomy map to 500 with fallback, so internal details
// never leave the process.
func Status(err error, fallback string) (int, string) {
	var bad *BadRequest
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest, bad.Message
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusBadRequest, "User not found"
	case errors.Is(err, ErrMissingEmail):
		return http.StatusBadRequest, "User email not found"
	default:
		return http.StatusInternalServerError, fallback
	}
}
