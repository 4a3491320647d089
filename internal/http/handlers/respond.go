// Package handlers provides the HTTP handler implementations of the public
// API. This file is the error classifier and responder: the single terminal
// point that converts any raised failure into exactly one JSON response.
//
// Classification is an ordered first-match over the failure kind. The order
// is a deliberate tie-break policy and must not be rearranged:
//
//  1. bad ID            → 400 "Invalid ID format"
//  2. duplicate key     → 400 "Duplicate field value entered"
//  3. validation        → 400 comma-joined per-field messages
//  4. malformed token   → 401 "Invalid token"
//  5. expired token     → 401 "Token expired"
//  6. anything else     → status hint (default 500), caller message
//     (default "Internal Server Error")
//
// The envelope's status word is derived from the numeric code: "fail" for
// 4xx, "error" otherwise. Internal detail and stack traces are included
// only for non-production responders; in production the body of a
// non-operational failure is always the generic 500 shape. Classification
// is pure: identical failures produce byte-identical bodies.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nordstack/go-api-starter/internal/apperr"
	"github.com/nordstack/go-api-starter/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by all endpoints.
//
// Detail and Stack are populated only by non-production responders; in a
// production build they must never appear, regardless of failure kind.
type ErrorResponse struct {
	// RequestID correlates server logs and client errors.
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Status is "fail" for 4xx responses and "error" for 5xx.
	Status string `json:"status" example:"fail"`
	// Message is human-readable and safe to show to users.
	Message string `json:"message" example:"Invalid ID format"`
	// Errors lists field-level violations for validation failures,
	// in rule declaration order.
	Errors []apperr.Violation `json:"errors,omitempty"`
	// Detail carries the raw internal failure message (non-production only).
	Detail string `json:"error,omitempty"`
	// Stack carries the captured stack trace (non-production only).
	Stack string `json:"stack,omitempty"`
}

// Responder writes error responses. Dev toggles the inclusion of internal
// detail; it is injected from the configuration snapshot at wiring time and
// read on every invocation.
type Responder struct {
	Dev bool
}

// Respond classifies err and writes the single terminal error response.
// Nothing may be written to c afterwards.
func (rp Responder) Respond(c *gin.Context, err error) {
	e := apperr.From(err)
	status, msg := rp.classify(e)

	// In development the original failure is logged before the reclassified
	// response is sent.
	if rp.Dev {
		middleware.LoggerFrom(c).Error().
			Str("kind", e.Kind.String()).
			Str("detail", e.Message).
			AnErr("cause", e.Cause).
			Bytes("stack", e.Stack).
			Msg("failure")
	}

	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Status:    statusWord(status),
		Message:   msg,
	}
	if e.Kind == apperr.KindValidation {
		resp.Errors = e.Violations
	}
	if rp.Dev {
		resp.Detail = e.Message
		resp.Stack = string(e.Stack)
	}

	// 5xx responses are logged with request context in every environment.
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("kind", e.Kind.String()).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// classify resolves the failure to its HTTP status and client message.
// First match wins; the order is part of the contract.
func (rp Responder) classify(e *apperr.Error) (int, string) {
	switch e.Kind {
	case apperr.KindBadID:
		return http.StatusBadRequest, MsgBadID
	case apperr.KindDuplicate:
		return http.StatusBadRequest, MsgDuplicate
	case apperr.KindValidation:
		return http.StatusBadRequest, joinViolations(e.Violations)
	case apperr.KindTokenMalformed:
		return http.StatusUnauthorized, MsgTokenInvalid
	case apperr.KindTokenExpired:
		return http.StatusUnauthorized, MsgTokenExpired
	default:
		status := e.StatusHint
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := e.Message
		// Internal detail of unexpected faults never reaches production
		// clients; the Detail/Stack fields cover development.
		if msg == "" || (!e.Operational && !rp.Dev) {
			msg = MsgInternal
		}
		return status, msg
	}
}

// joinViolations renders the aggregate validation message: all per-field
// messages, comma-joined, in collection order.
func joinViolations(vs []apperr.Violation) string {
	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, ", ")
}

// statusWord derives the envelope status from the leading status digit.
func statusWord(status int) string {
	if status/100 == 4 {
		return StatusFail
	}
	return StatusError
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
