// Package domain defines the persistence models of the starter. The types
// are mapped with GORM and shared between the repository, service, and
// transport layers.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is an account that can authenticate against the API.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: login identifier; unique across live rows.
//   - Name: display name, title-cased at registration.
//   - PasswordHash: bcrypt hash; never serialized.
//   - Role: coarse authorization group (default "user").
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type User struct {
	ID           string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Email        string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	Name         string         `json:"name"       gorm:"type:varchar(120);not null"`
	PasswordHash string         `json:"-"          gorm:"type:varchar(255);not null"`
	Role         string         `json:"role"       gorm:"type:varchar(32);not null;default:'user'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }
