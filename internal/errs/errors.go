// Package errs provides the unified error type used across all of pixvault.
//
// Every subsystem (storage, gallery, server, …) wraps its native errors
// into *errs.Error before returning them to callers. Callers use the Is*
// predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindTransport, "listing failed", s3Err)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// The storage driver maps SDK errors to one of these kinds; the image
// pipeline and config loader produce them directly. Only ErrKindConfig,
// ErrKindNotFound, and ErrKindPermissionDenied may abort a view — transport
// and decode failures always degrade locally.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindConfig                   // missing secret or credentials, fatal at startup
	ErrKindNotFound                 // no object, no bucket
	ErrKindPermissionDenied         // bucket forbidden, bad credentials
	ErrKindTransport                // listing or fetch failure, recovered as empty
	ErrKindDecode                   // unprocessable image bytes, recovered as placeholder
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindInvalidInput             // bad arguments from the caller
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindTransport:
		return "transport"
	case ErrKindDecode:
		return "decode"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all pixvault subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original SDK-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsConfig reports whether err is a startup configuration failure.
func IsConfig(err error) bool {
	return kindOf(err) == ErrKindConfig
}

// IsNotFound reports whether err represents a missing object or bucket.
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// IsAccess reports whether err should abort the current view
// (bucket missing or forbidden).
func IsAccess(err error) bool {
	k := kindOf(err)
	return k == ErrKindNotFound || k == ErrKindPermissionDenied
}

// IsTransport reports whether err is a recoverable listing or fetch failure.
func IsTransport(err error) bool {
	return kindOf(err) == ErrKindTransport
}

// IsDecode reports whether err was caused by unprocessable image bytes.
func IsDecode(err error) bool {
	return kindOf(err) == ErrKindDecode
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
