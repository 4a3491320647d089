// Package repo implements the persistence layer, backed by GORM. This file
// provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// usable inside transactions. They follow the thin-repository approach: no
// business logic, only CRUD persistence and query composition. On missing
// records they return gorm.ErrRecordNotFound (aliased as ErrNotFound); all
// other driver errors are propagated raw for the caller to normalize.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nordstack/go-api-starter/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistent checks across services and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts a new user row with a generated UUID and UTC creation
// time. Unique-email conflicts surface as gorm.ErrDuplicatedKey (or the raw
// driver error, which the service layer normalizes).
func CreateUser(ctx context.Context, db *gorm.DB, email, name, passwordHash string) (*domain.User, error) {
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by primary key, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email, or ErrNotFound.
func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsers returns the total number of users, for pagination metadata.
func CountUsers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// ListUsersPage returns a page of users ordered by creation time descending.
// The caller computes offset and limit (e.g. (page-1)*pageSize).
func ListUsersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
