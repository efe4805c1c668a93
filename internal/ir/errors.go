package ir

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies failures that can reach feature state.
type ErrorKind string

const (
	// ErrNetwork is a transport or HTTP failure.
	ErrNetwork ErrorKind = "network"
	// ErrParse is a malformed payload.
	ErrParse ErrorKind = "parse"
	// ErrNotFound is a successful but empty result.
	ErrNotFound ErrorKind = "not_found"
	// ErrCancelled marks a discarded effect. Never shown to the user.
	ErrCancelled ErrorKind = "cancelled"
)

// ParseErrorKind converts a string into an ErrorKind.
func ParseErrorKind(s string) (ErrorKind, error) {
	switch ErrorKind(s) {
	case ErrNetwork, ErrParse, ErrNotFound, ErrCancelled:
		return ErrorKind(s), nil
	default:
		return "", fmt.Errorf("unknown error kind %q: must be network, parse, not_found or cancelled", s)
	}
}

// AppError is the error type carried by fetch responses.
type AppError struct {
	Kind ErrorKind
	Err  error
}

// NewError creates an AppError of the given kind.
func NewError(kind ErrorKind, err error) *AppError {
	return &AppError{Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Classify maps any error to an AppError.
// Context cancellation becomes ErrCancelled, an AppError anywhere in the
// chain is returned as is, everything else is a network error.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Kind: ErrCancelled, Err: err}
	}
	return &AppError{Kind: ErrNetwork, Err: err}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	ae := Classify(err)
	return ae != nil && ae.Kind == kind
}
