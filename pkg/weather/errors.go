package weather

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoAPIKey is returned when no API key is configured.
	ErrNoAPIKey = errors.New("weather: API key not configured")

	// ErrNoLocation is returned when the location query is empty.
	ErrNoLocation = errors.New("weather: location required")
)

// NotFoundError is returned when the API cannot resolve a location.
type NotFoundError struct {
	Location string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("weather: location %q not found", e.Location)
}

// APIError represents a non-404 error response from the weather API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("weather: API error %d: %s", e.StatusCode, e.Message)
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}
