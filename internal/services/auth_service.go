// Package services – AuthService
//
// This file implements bearer-token authentication: exchanging credentials
// for a signed JWT and verifying presented tokens. Verification failures
// are reported as the two credential failure kinds the responder knows
// about (malformed vs. expired); the cryptography itself is delegated to
// github.com/golang-jwt/jwt.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nordstack/go-api-starter/internal/apperr"
	"github.com/nordstack/go-api-starter/internal/domain"
	"github.com/nordstack/go-api-starter/internal/repo"
)

// AuthService issues and verifies bearer tokens.
type AuthService struct {
	// DB is the GORM handle used for credential lookup.
	DB *gorm.DB
	// Repo is the user repository.
	Repo UserRepo

	// Secret signs tokens (HS256). Must be non-empty; config validation
	// guarantees this at startup.
	Secret string
	// TokenTTL bounds the lifetime of issued tokens.
	TokenTTL time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, r UserRepo, secret string, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Repo: r, Secret: secret, TokenTTL: ttl}
}

// Login verifies the email/password pair and returns a signed token plus
// the authenticated user. Unknown emails and wrong passwords are reported
// identically to avoid account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Repo.GetUserByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil, apperr.New(401, "Invalid credentials")
	}
	if err != nil {
		return "", nil, apperr.Wrap(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, apperr.New(401, "Invalid credentials")
	}

	token, err := s.IssueToken(u.ID)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// IssueToken signs an HS256 token whose subject is the user ID.
func (s *AuthService) IssueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", apperr.Wrap(err)
	}
	return signed, nil
}

// Verify parses and validates a presented token, returning its subject.
//
// Failure mapping: expiry maps to the expired-credential kind; every other
// parse or signature problem (including an unexpected signing method) maps
// to the malformed-credential kind.
func (s *AuthService) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) { return []byte(s.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e := apperr.TokenExpired()
			e.Cause = err
			return "", e
		}
		e := apperr.TokenMalformed()
		e.Cause = err
		return "", e
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.TokenMalformed()
	}
	return sub, nil
}
