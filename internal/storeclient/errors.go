package storeclient

import (
	"errors"
	"fmt"
)

// ErrNotFound means the record no longer exists at the store. Deletes
// treat it as success (the desired end state already holds); status
// edits surface it.
var ErrNotFound = errors.New("record not found at store")

// RejectedError is a response the store answered with an error
// payload: bad credentials, a forbidden transition, malformed input.
// The message shown to the user comes from the payload itself.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("store rejected request with status %d", e.StatusCode)
}

// TransportError means no response was received at all. It is
// surfaced verbatim and never retried automatically.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "store unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
