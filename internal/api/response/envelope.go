package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorEnvelope is the wire shape of every failed response.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v as a JSON response with the given status code. Success
// payloads are handler-defined structs carrying a `success` field.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Err writes an error JSON response.
func Err(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorEnvelope{Success: false, Error: message})
}

// ErrWithDetails writes an error JSON response with per-field details.
func ErrWithDetails(w http.ResponseWriter, status int, message string, details any) {
	JSON(w, status, ErrorEnvelope{Success: false, Error: message, Details: details})
}
