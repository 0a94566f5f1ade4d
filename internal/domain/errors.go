package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotCreator is returned when a creator-only operation (drag, finish,
	// delete) is attempted by a different academy.
	ErrNotCreator = errors.New("actor is not the request creator")

	// ErrOwnRequest is returned when an academy tries to accept its own request.
	ErrOwnRequest = errors.New("cannot accept own request")

	// ErrIllegalTransition is returned for a status move that skips a state,
	// goes backward, or starts from a terminal/unknown state.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrNotDeletable is returned when delete is attempted on a confirmed
	// request; only available and finished requests may be removed.
	ErrNotDeletable = errors.New("request cannot be deleted in its current state")

	// ErrNotFound is returned when an operation references an id absent from
	// the store.
	ErrNotFound = errors.New("match request not found")
)

// UnknownStatusError reports an upstream status value outside the wire
// vocabulary. Such payloads are a data error, never silently coerced.
type UnknownStatusError struct {
	Value string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown wire status %q", e.Value)
}

// ValidationError aggregates the creation wizard's per-field failures. The
// flow must not advance while any remain.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsAuthorizationError reports whether err is one of the actor-permission
// failures; callers treat these as terminal for the action, never retried.
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrNotCreator) || errors.Is(err, ErrOwnRequest)
}
