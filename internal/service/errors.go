package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsuccessful is returned when a 2xx response reports success=false
// without an error text.
var ErrUnsuccessful = errors.New("service reported failure")

// RejectedError is a business-rule rejection: the service answered with an
// error text meant for the user (e.g. deleting an unread notification).
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%d): %s", e.StatusCode, e.Message)
}

// StatusError is a non-2xx response without a user-facing error text.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

// IsRejected reports whether err (or any error in its chain) is a
// RejectedError.
func IsRejected(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// RejectionMessage returns the user-facing text of a RejectedError in err's
// chain, or "" when there is none.
func RejectionMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Message
	}
	return ""
}

// IsForbidden reports whether err carries a 403 response, which is how the
// service refuses a stale or missing anti-forgery token.
func IsForbidden(err error) bool {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.StatusCode == http.StatusForbidden
	}
	var status *StatusError
	if errors.As(err, &status) {
		return status.StatusCode == http.StatusForbidden
	}
	return false
}
