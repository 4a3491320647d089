// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware only
// handles transport concerns — extracting the Authorization header and
// populating the request context — while verification itself is injected
// as a function, and failures are handed to the injected responder so that
// every error response comes from the same terminal point.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nordstack/go-api-starter/internal/apperr"
)

// TokenVerifier validates a raw bearer token and returns the authenticated
// subject (user ID). Implementations report failures as apperr kinds so the
// responder can distinguish malformed from expired credentials.
type TokenVerifier func(token string) (subject string, err error)

// Auth returns middleware that requires a valid "Authorization: Bearer"
// credential. On success the subject is stored under the "userID" context
// key; on failure the request is diverted to onError and aborted.
//
// A missing header or a non-bearer scheme is treated as a malformed
// credential: the client gets the same response as for a garbled token.
func Auth(verify TokenVerifier, onError func(*gin.Context, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			onError(c, apperr.TokenMalformed())
			return
		}

		subject, err := verify(token)
		if err != nil {
			onError(c, err)
			return
		}

		c.Set(userIDKey, subject)
		c.Next()
	}
}

// UserIDFrom returns the authenticated user ID set by Auth, or "" when the
// request is unauthenticated.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 6750.
func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
