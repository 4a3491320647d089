// Auth HTTP handlers.
//
// This file exposes the account and session endpoints:
//   - POST /auth/register  (create account, returns a token)
//   - POST /auth/login     (exchange credentials for a token)
//   - GET  /auth/me        (current account, requires bearer token)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nordstack/go-api-starter/internal/apperr"
	"github.com/nordstack/go-api-starter/internal/domain"
	"github.com/nordstack/go-api-starter/internal/http/middleware"
	"github.com/nordstack/go-api-starter/internal/validate"
)

//
// DTOs
//

// RegisterRequest is the JSON payload for creating an account.
type RegisterRequest struct {
	// Email is the login identifier; stored lowercased.
	Email string `json:"email" example:"alice@example.com"`
	// Name is the display name (2–50 chars).
	Name string `json:"name" example:"Alice Smith"`
	// Password is the plaintext password (8–72 chars, bcrypt limit).
	Password string `json:"password" example:"correct horse battery"`
}

// LoginRequest is the JSON payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery"`
}

// AuthResponse carries a signed bearer token and the account it belongs to.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

//
// Handlers
//

// Register godoc
// @ID          register
// @Summary     Create an account
// @Description Validates the payload, creates the account, and returns a signed token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterRequest  true  "Registration payload"
//
// @Success     201  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation or duplicate email"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rp.Respond(c, apperr.New(http.StatusBadRequest, "Invalid JSON body"))
		return
	}

	ctx := c.Request.Context()
	if violations := validate.Run(ctx,
		validate.Required("email", req.Email),
		validate.Email("email", req.Email),
		validate.LenBetween("name", strings.TrimSpace(req.Name), 2, 50),
		validate.LenBetween("password", req.Password, 8, 72),
	); len(violations) > 0 {
		h.rp.Respond(c, apperr.Validation(violations))
		return
	}

	u, err := h.users.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		h.rp.Respond(c, err)
		return
	}
	token, err := h.auth.IssueToken(u.ID)
	if err != nil {
		h.rp.Respond(c, err)
		return
	}
	ok(c, http.StatusCreated, AuthResponse{Token: token, User: *u})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Exchanges email and password for a signed bearer token.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object}  handlers.AuthResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rp.Respond(c, apperr.New(http.StatusBadRequest, "Invalid JSON body"))
		return
	}

	ctx := c.Request.Context()
	if violations := validate.Run(ctx,
		validate.Required("email", req.Email),
		validate.Required("password", req.Password),
	); len(violations) > 0 {
		h.rp.Respond(c, apperr.Validation(violations))
		return
	}

	token, u, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.rp.Respond(c, err)
		return
	}
	ok(c, http.StatusOK, AuthResponse{Token: token, User: *u})
}

// Me godoc
// @ID          me
// @Summary     Current account
// @Description Returns the account bound to the presented bearer token.
// @Tags        Auth
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	uid := middleware.UserIDFrom(c)
	if uid == "" {
		h.rp.Respond(c, apperr.TokenMalformed())
		return
	}
	u, err := h.users.Get(c.Request.Context(), uid)
	if err != nil {
		h.rp.Respond(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
