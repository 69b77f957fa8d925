// Package respond provides shared JSON response utilities for API handlers.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/courtsync/courtsync/internal/domain"
)

// ErrorResponse is the standard error shape for all API errors.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteJSON marshals a Go value and writes it.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError sends a structured JSON error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// WriteDomainError maps the sync core's error taxonomy onto status codes.
// Quota exhaustion is temporary by definition, so it carries a Retry-After.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, domain.ErrQuotaExceeded):
		w.Header().Set("Retry-After", "70")
		WriteError(w, http.StatusServiceUnavailable, "QUOTA_EXCEEDED", "provider quota exceeded, retry later")
	case errors.Is(err, domain.ErrProviderUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "PROVIDER_UNAVAILABLE", "upstream provider unavailable")
	case errors.Is(err, domain.ErrTimeout):
		WriteError(w, http.StatusGatewayTimeout, "TIMEOUT", "upstream provider timed out")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
