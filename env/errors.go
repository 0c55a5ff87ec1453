package env

import (
	"errors"
	"fmt"
	"time"
)

// ErrEpisodeTerminal is returned by Step once the episode has terminated.
var ErrEpisodeTerminal = errors.New("episode is terminal, Reset required")

// ConfigurationError reports a malformed or missing required setting. It is
// raised before any external call is made.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// InvalidActionError reports an action vector outside [0,1]^3, of the wrong
// arity, or supplied in the wrong action-source mode.
type InvalidActionError struct {
	Reason string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid action: %s", e.Reason)
}

// AdapterTimeoutError reports an adapter that did not respond within its
// configured timeout.
type AdapterTimeoutError struct {
	Adapter string
	Timeout time.Duration
}

func (e *AdapterTimeoutError) Error() string {
	return fmt.Sprintf("%s adapter timed out after %s", e.Adapter, e.Timeout)
}

// AdapterFailureError reports an adapter that crashed, was unreachable, or
// returned malformed output.
type AdapterFailureError struct {
	Adapter string
	Reason  string
	Err     error
}

func (e *AdapterFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s adapter failed: %s: %v", e.Adapter, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s adapter failed: %s", e.Adapter, e.Reason)
}

func (e *AdapterFailureError) Unwrap() error {
	return e.Err
}

// DataExhaustedError reports a historical cursor with fewer rows left than
// the requested epoch needs.
type DataExhaustedError struct {
	Requested int
	Available int
}

func (e *DataExhaustedError) Error() string {
	return fmt.Sprintf("historical dataset exhausted: requested %d rows, %d available", e.Requested, e.Available)
}

// LengthMismatchError reports two history series that diverge in length when
// a cross-comparison is requested.
type LengthMismatchError struct {
	Left     string
	Right    string
	LeftLen  int
	RightLen int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: %s has %d samples, %s has %d", e.Left, e.LeftLen, e.Right, e.RightLen)
}
