package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nordstack/go-api-starter/internal/apperr"
)

func newAuthService(t *testing.T, ttl time.Duration) *AuthService {
	t.Helper()
	db := newServiceDB(t)
	return NewAuthService(db, repoFuncs{}, "test-secret", ttl)
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	svc := newAuthService(t, time.Hour)
	users := NewUserService(svc.DB, repoFuncs{})
	ctx := context.Background()

	u, err := users.Register(ctx, "a@b.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	token, got, err := svc.Login(ctx, "A@B.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || token == "" {
		t.Fatalf("unexpected login result: %+v token=%q", got, token)
	}

	sub, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != u.ID {
		t.Fatalf("subject=%q want %q", sub, u.ID)
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc := newAuthService(t, time.Hour)
	users := NewUserService(svc.DB, repoFuncs{})
	ctx := context.Background()

	if _, err := users.Register(ctx, "a@b.com", "Alice", "password123"); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"a@b.com", "wrong-password"},
		{"missing@b.com", "password123"},
	} {
		_, _, err := svc.Login(ctx, tc.email, tc.password)
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.StatusHint != 401 || ae.Message != "Invalid credentials" {
			t.Fatalf("login(%s): expected 401 Invalid credentials, got %v", tc.email, err)
		}
	}
}

func TestAuthService_Verify_Expired(t *testing.T) {
	svc := newAuthService(t, -time.Minute) // already expired when issued

	token, err := svc.IssueToken("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Verify(token)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindTokenExpired {
		t.Fatalf("expected expired kind, got %v", err)
	}
}

func TestAuthService_Verify_Malformed(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	cases := []string{
		"not-a-token",
		"a.b.c",
		"",
	}
	for _, tok := range cases {
		_, err := svc.Verify(tok)
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Kind != apperr.KindTokenMalformed {
			t.Fatalf("Verify(%q): expected malformed kind, got %v", tok, err)
		}
	}
}

func TestAuthService_Verify_WrongSignature(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tok, err := other.SignedString([]byte("a-different-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = svc.Verify(tok)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindTokenMalformed {
		t.Fatalf("expected malformed kind for bad signature, got %v", err)
	}
}

func TestAuthService_Verify_MissingSubject(t *testing.T) {
	svc := newAuthService(t, time.Hour)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte(svc.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = svc.Verify(signed)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind != apperr.KindTokenMalformed {
		t.Fatalf("expected malformed kind for empty subject, got %v", err)
	}
}
