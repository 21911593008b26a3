package api

import "fmt"

// Error represents a structured error payload returned by the API.
type Error struct {
	StatusCode int
	Type       string // e.g. "invalid_request_error", "card_error", "api_error"
	Message    string
	Param      string // offending parameter, if the server named one
	Code       string // card-specific sub-code, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// NetworkError represents a failure to obtain any usable response.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}
