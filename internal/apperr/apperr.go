// Package apperr defines the failure record that flows from every layer of
// the application into the single HTTP error responder.
//
// A failure is a closed enumeration of kinds rather than an open hierarchy:
// the responder can match it exhaustively, and every kind carries exactly
// the payload it needs (a violation list for validation failures, a status
// hint and message for unclassified faults). Values are constructed at the
// point of failure, consumed once by the responder, and never mutated.
//
// Error implements the standard error interface and supports errors.Is /
// errors.As chains through Unwrap, so lower layers can keep returning plain
// errors and have them coerced at the boundary via From.
package apperr

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"gorm.io/gorm"
)

// Kind discriminates the origin of a failure. The set is closed: the
// responder matches it exhaustively and treats anything it does not
// recognize as KindUnclassified.
type Kind uint8

const (
	// KindUnclassified is the fallback for unexpected internal faults and
	// for operational failures that only need a status hint (e.g. 404).
	KindUnclassified Kind = iota

	// KindBadID marks a cast/type mismatch on an identifier (e.g. a path
	// parameter that is not a valid UUID).
	KindBadID

	// KindDuplicate marks a unique-key conflict reported by the database.
	KindDuplicate

	// KindValidation marks one or more field-level validation violations.
	KindValidation

	// KindTokenMalformed marks a missing, unparsable, or tampered credential.
	KindTokenMalformed

	// KindTokenExpired marks a well-formed credential past its expiry.
	KindTokenExpired
)

// String returns a stable lowercase name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindBadID:
		return "bad_id"
	case KindDuplicate:
		return "duplicate_key"
	case KindValidation:
		return "validation"
	case KindTokenMalformed:
		return "token_malformed"
	case KindTokenExpired:
		return "token_expired"
	default:
		return "unclassified"
	}
}

// Violation is a single field-level validation failure. Order within a
// violation list is significant and mirrors rule declaration order.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the unit consumed by the HTTP responder.
//
// Fields are set at construction and never mutated afterwards. Stack is
// captured eagerly so that development-mode responses and logs can show
// where the failure originated; production responses must never expose
// Message (for non-operational failures), Stack, or Cause.
type Error struct {
	// Kind is the primary classification, matched first by the responder.
	Kind Kind

	// Message is the raw, caller-supplied description. For operational
	// failures it is safe to show to clients; for unexpected faults it is
	// internal detail.
	Message string

	// StatusHint optionally overrides the HTTP status for unclassified
	// failures. Zero means "no hint" (the responder defaults to 500).
	StatusHint int

	// Operational reports whether this is an expected, user-facing
	// condition (bad input, expired credential) as opposed to an
	// unexpected internal fault.
	Operational bool

	// Violations carries the ordered field violations for KindValidation.
	Violations []Violation

	// Stack is the goroutine stack captured at construction.
	Stack []byte

	// Cause is the wrapped underlying error, if any.
	Cause error
}

// Error implements the error interface as "<kind>: <message>".
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, msg string, operational bool) *Error {
	return &Error{
		Kind:        kind,
		Message:     msg,
		Operational: operational,
		Stack:       debug.Stack(),
	}
}

// BadID reports a type-mismatched identifier in the request.
func BadID() *Error {
	return newError(KindBadID, "invalid identifier", true)
}

// Duplicate reports a unique-key conflict.
func Duplicate() *Error {
	return newError(KindDuplicate, "duplicate key", true)
}

// Validation reports one or more field violations. The slice order is
// preserved all the way to the response body.
func Validation(violations []Violation) *Error {
	e := newError(KindValidation, "validation failed", true)
	e.Violations = violations
	return e
}

// TokenMalformed reports a missing or unparsable credential.
func TokenMalformed() *Error {
	return newError(KindTokenMalformed, "malformed token", true)
}

// TokenExpired reports an expired credential.
func TokenExpired() *Error {
	return newError(KindTokenExpired, "expired token", true)
}

// New constructs an operational, unclassified failure with a status hint
// and a client-safe message (e.g. New(404, "User not found")).
func New(statusHint int, msg string) *Error {
	e := newError(KindUnclassified, msg, true)
	e.StatusHint = statusHint
	return e
}

// Internal constructs a non-operational fault with an internal message.
// Production responses render it as a generic 500.
func Internal(msg string) *Error {
	return newError(KindUnclassified, msg, false)
}

// Wrap coerces an arbitrary error into a non-operational internal fault,
// preserving it as the cause. Wrapping a *Error returns it unchanged.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	e := newError(KindUnclassified, err.Error(), false)
	e.Cause = err
	return e
}

// From is an alias of Wrap used at the responder boundary, where the intent
// is "give me the failure record behind this error, whatever it is".
func From(err error) *Error { return Wrap(err) }

// FromDB normalizes a persistence error. Unique-constraint conflicts become
// KindDuplicate; everything else is wrapped as an internal fault.
//
// GORM translates driver-specific conflicts to gorm.ErrDuplicatedKey when
// TranslateError is enabled; the string fallbacks cover drivers that do not
// implement the translator interface.
func FromDB(err error) *Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateMessage(err.Error()) {
		e := Duplicate()
		e.Cause = err
		return e
	}
	return Wrap(err)
}

func isDuplicateMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

// Errorf is a convenience for Internal(fmt.Sprintf(...)).
func Errorf(format string, args ...any) *Error {
	return Internal(fmt.Sprintf(format, args...))
}
