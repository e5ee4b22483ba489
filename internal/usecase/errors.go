package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind classifies sync failures. None of them is fatal.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindMalformed ErrorKind = "malformed"
	KindInvariant ErrorKind = "invariant"
)

var ErrAlreadyStarted = errors.New("sync controller already started")

// SyncError is raised when a stimulus could not be applied. The stores keep
// their last good state.
type SyncError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Op)
}

func (e *SyncError) Unwrap() error { return e.Err }

// UserMessage is the short text surfaced to the render layer.
func (e *SyncError) UserMessage() string {
	switch e.Kind {
	case KindTransport:
		return "Error loading data"
	case KindMalformed:
		return fmt.Sprintf("Malformed %s payload ignored", e.Op)
	default:
		return "Unexpected data adjusted"
	}
}
