// Package apperrors defines the error taxonomy shared by services and handlers.
//
// Every error a handler can turn into a response carries a Kind. Handlers map
// the Kind to an HTTP status; everything without a Kind is treated as an
// internal failure.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindConflict
	KindRateLimited
	KindUpstreamFormat
	KindUpstream
	KindDataService
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamFormat:
		return "upstream_format"
	case KindUpstream:
		return "upstream"
	case KindDataService:
		return "data_service"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

// Error is a classified application error. Message is safe to show to a
// client for 4xx kinds; Err holds the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error of the given kind wrapping err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation reports malformed or incomplete client input.
func Validation(message string) error {
	return New(KindValidation, message)
}

// NotFound reports an absent resource (or one the caller does not own).
func NotFound(message string) error {
	return New(KindNotFound, message)
}

// Conflict reports a duplicate unique field.
func Conflict(message string) error {
	return New(KindConflict, message)
}

// DataService wraps a failure talking to the relational store.
func DataService(op string, err error) error {
	return Wrap(KindDataService, op, err)
}

// Configuration reports missing or invalid process configuration.
func Configuration(message string) error {
	return New(KindConfiguration, message)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the client-facing message of the first *Error in
// err's chain, or fallback when none exists.
func PublicMessage(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
