package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotConfigured is returned when a request is attempted without a
// configured backend base URL. Callers normally check configuration first
// and serve demo data instead.
var ErrNotConfigured = errors.New("backend not configured: set api_base_url or DELIVERYTRACK_API_BASE_URL")

// ErrUnreachable wraps transport-level failures where no response was
// received, so every such failure surfaces as one message.
var ErrUnreachable = errors.New("backend unreachable")

// RequestError is a non-2xx response from the backend, carrying the
// backend-provided message when one was present in the body.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsAuthorizationLost reports whether err is a 401 response. By the time
// callers observe it the session store has already been cleared.
func IsAuthorizationLost(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}

// errorBody is the shape backends use for error payloads; either field
// may carry the message.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}
