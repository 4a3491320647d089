// Package services implements the business logic of the starter: user
// registration and lookup, and credential issuing/verification.
//
// Expected failure conditions are returned as *apperr.Error values through
// ordinary control flow — nothing here panics or writes HTTP responses.
// The handlers pass whatever comes back to the single error responder.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/nordstack/go-api-starter/internal/apperr"
	"github.com/nordstack/go-api-starter/internal/domain"
	"github.com/nordstack/go-api-starter/internal/repo"
)

// UserRepo defines the persistence contract required by UserService.
type UserRepo interface {
	CreateUser(ctx context.Context, db *gorm.DB, email, name, passwordHash string) (*domain.User, error)
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error)
	CountUsers(ctx context.Context, db *gorm.DB) (int64, error)
	ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error)
}

// UserService provides account lifecycle operations.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository.
	Repo UserRepo

	nameCaser cases.Caser
}

// NewUserService constructs a UserService with English display-name casing.
func NewUserService(db *gorm.DB, r UserRepo) *UserService {
	return &UserService{
		DB:        db,
		Repo:      r,
		nameCaser: cases.Title(language.English),
	}
}

// Register creates an account. The display name is trimmed and title-cased,
// the password is bcrypt-hashed, and a duplicate email surfaces as a
// duplicate-kind failure for the responder to translate.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = s.nameCaser.String(strings.TrimSpace(name))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	u, err := s.Repo.CreateUser(ctx, s.DB, email, name, string(hash))
	if err != nil {
		return nil, apperr.FromDB(err)
	}
	return u, nil
}

// Get fetches a user by ID. Missing users are an operational 404.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, apperr.New(404, "User not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return u, nil
}

// ListPage returns a page of users plus the total count, applying defaults
// for out-of-range paging arguments.
func (s *UserService) ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, apperr.Wrap(err)
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}

	items, err := s.Repo.ListUsersPage(ctx, s.DB, offset, pageSize)
	if err != nil {
		return nil, 0, apperr.Wrap(err)
	}
	return items, total, nil
}
