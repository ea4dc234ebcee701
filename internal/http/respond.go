package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Mkaify/Nova-Threads/internal/supabase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleRemoteError maps a remote-service error onto an HTTP response. These
// are never fatal; the page degrades to a transient error message.
func handleRemoteError(w http.ResponseWriter, err error) {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == supabase.CodeUniqueViolation:
			respondError(w, http.StatusConflict, "already_exists", apiErr.Message)
		case apiErr.StatusCode == http.StatusNotFound:
			respondError(w, http.StatusNotFound, "not_found", apiErr.Message)
		case apiErr.StatusCode == http.StatusUnauthorized, apiErr.StatusCode == http.StatusForbidden:
			respondError(w, apiErr.StatusCode, "unauthorized", apiErr.Message)
		case apiErr.StatusCode >= 500:
			respondError(w, http.StatusBadGateway, "remote_unavailable", "remote service error")
		default:
			respondError(w, http.StatusBadRequest, "remote_rejected", apiErr.Message)
		}
		return
	}
	respondError(w, http.StatusServiceUnavailable, "service_unavailable", "remote service unreachable")
}
