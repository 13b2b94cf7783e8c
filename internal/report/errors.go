package report

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCreationTime is returned when a final delivery references a
	// message whose creation was never recorded.
	ErrMissingCreationTime = errors.New("missing creation time")
	// ErrMissingRequest is returned when a delivered response has no
	// originating request to measure the round trip against.
	ErrMissingRequest = errors.New("response without originating request")
)

// IntegrityError identifies the message and event that broke a data
// invariant. Runs abort on it.
type IntegrityError struct {
	Event     string
	MessageID string
	Err       error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: message %q: %v", e.Event, e.MessageID, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
