package supabase

import (
	"errors"
	"fmt"
)

// Postgres error codes surfaced by the remote service's REST layer.
const (
	CodeUniqueViolation = "23505"
)

// APIError is the structured error body the remote service returns for a
// failed table or auth call.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (code %s, status %d)", e.Message, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("supabase: %s (status %d)", e.Message, e.StatusCode)
}

// IsUniqueViolation reports whether err is a uniqueness-violation conflict,
// e.g. a second review for the same product by the same user.
func IsUniqueViolation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeUniqueViolation
}

// IsNotFound reports whether err is a 404 from the remote service.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
