// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse represents a structured error response returned by the API.
// Details is optional: a string, or a field-to-message map for validation failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// The body is encoded before the status is written, so an unencodable value
// produces a 500 rather than a truncated success response.
// If data is nil, only the status code is sent.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	if data == nil {
		w.WriteHeader(status)
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// RespondError sends a structured error response with the given status code.
// An empty details string is omitted from the body.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
//	response.RespondError(w, http.StatusNotFound, "asset not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	if s, ok := details.(string); ok && s == "" {
		details = nil
	}
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
