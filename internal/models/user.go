package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values carried in access-token claims.
const (
	RoleUser   = "user"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

type User struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Phone         string         `gorm:"size:32" json:"phone,omitempty"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Role          string         `gorm:"size:20;default:'user'" json:"role"`
	EmailVerified bool           `gorm:"default:false" json:"email_verified"`
	TokenVersion  int            `gorm:"default:0" json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
