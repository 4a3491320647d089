// Package handlers defines the user-facing error vocabulary of the API.
//
// The classifier in respond.go maps every failure kind to exactly one of
// the messages below. They are part of the wire contract: clients match on
// them, so changing a string is a breaking change.
package handlers

// Client-safe messages per failure kind.
const (
	MsgBadID        = "Invalid ID format"
	MsgDuplicate    = "Duplicate field value entered"
	MsgTokenInvalid = "Invalid token"
	MsgTokenExpired = "Token expired"
	MsgInternal     = "Internal Server Error"
)

// Envelope status words, derived from the numeric status code: "fail" for
// 4xx responses, "error" for everything else the classifier emits.
const (
	StatusFail  = "fail"
	StatusError = "error"
)
