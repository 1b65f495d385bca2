package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// CapacityError is the expected outcome when a reservation asks for more
// seats than a pool has left. Available carries the actual remaining count
// so callers can show it to the user.
type CapacityError struct {
	TripID    int64
	Pool      Pool
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity in %s pool: requested %d, available %d", e.Pool, e.Requested, e.Available)
}

// SequencingError rejects out-of-order lifecycle events (board before
// check-in, duplicate scans). The original state is left unchanged.
type SequencingError struct {
	Entity string
	From   string
	Action string
}

func (e SequencingError) Error() string {
	return fmt.Sprintf("%s cannot %s from status %q", e.Entity, e.Action, e.From)
}

// ConfigurationError must not occur in a correctly configured system.
// It is surfaced distinctly so operators can intervene, never silently
// defaulted away.
type ConfigurationError struct {
	Msg string
}

func (e ConfigurationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "configuration error"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsCapacity(err error) bool {
	var target CapacityError
	return errors.As(err, &target)
}

func IsSequencing(err error) bool {
	var target SequencingError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target ConfigurationError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
