// Handler wiring.
//
// Handlers are transport-thin: they bind input, run the declared validation
// rules, call application services, and hand every failure to the Responder,
// which is the only place a JSON error body is produced.
package handlers

import (
	"context"

	"github.com/nordstack/go-api-starter/internal/domain"
)

//
// Service contracts (context-aware)
//

// UserService defines user account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates a new account from raw credentials.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)
	// Get returns a user by id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// ListPage returns a page of users and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
}

// AuthService defines credential and token operations consumed by HTTP
// handlers. Token verification is wired directly into the auth middleware
// and is not part of this contract.
type AuthService interface {
	// Login checks credentials and returns a signed token with the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// IssueToken signs a fresh token for an existing user id.
	IssueToken(userID string) (string, error)
}

// Handlers groups the HTTP endpoints for accounts and sessions. It depends
// on abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	users UserService
	auth  AuthService
	rp    Responder
}

// New constructs a Handlers instance bound to the given services.
func New(users UserService, auth AuthService, rp Responder) *Handlers {
	return &Handlers{users: users, auth: auth, rp: rp}
}
