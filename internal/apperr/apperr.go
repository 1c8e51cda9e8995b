// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the typed failure taxonomy returned by the core
// services. Handlers map Kind values to HTTP statuses; stores translate
// driver-level constraint violations into Conflict before they escape.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindValidation marks a missing or malformed required field.
	KindValidation Kind = iota + 1
	// KindNotFound marks a referenced entity id/slug that does not exist.
	KindNotFound
	// KindForbidden marks an authorization denial.
	KindForbidden
	// KindConflict marks a uniqueness violation.
	KindConflict
	// KindUnauthenticated marks a missing or invalid credential.
	KindUnauthenticated
	// KindStorage marks an unexpected persistence-layer failure.
	KindStorage
)

// String returns the taxonomy name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_failed"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindStorage:
		return "storage_failure"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Fields carries per-field validation
// messages when Kind is KindValidation.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error with per-field messages.
func Validation(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Fields: fields}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Forbidden returns a KindForbidden error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Unauthenticated returns a KindUnauthenticated error.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

// Storage wraps an unexpected persistence error. The caller-facing message
// stays generic; the cause is preserved for logging.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Msg: "storage failure", Err: err}
}

// KindOf extracts the Kind from an error chain. Unclassified errors report
// KindStorage so callers treat them as generic internal failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
