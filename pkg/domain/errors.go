package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// MalformedStateError reports a persisted screen record that cannot be decoded.
// It is the only error produced when restoring navigation state.
type MalformedStateError struct {
	Key    string // Bundle key that failed (e.g., "screen_name", "post")
	Reason string // Human readable cause
	Err    error  // Underlying error, if any
}

func (e *MalformedStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed navigation state: %s: %s: %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed navigation state: %s: %s", e.Key, e.Reason)
}

func (e *MalformedStateError) Unwrap() error {
	return e.Err
}

// IsMalformedState checks if an error is (or wraps) a MalformedStateError.
func IsMalformedState(err error) bool {
	var malformed *MalformedStateError
	return errors.As(err, &malformed)
}
