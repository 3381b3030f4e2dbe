package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAuthRequired is returned before any network call when an operation
	// needs a credential and the session has none.
	ErrAuthRequired = errors.New("authentication required")
)

// APIError is a non-2xx answer. Message is the best human-readable text
// found in the response body. A 401 APIError matches ErrUnauthorized.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}
