package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is one device session for a user. The opaque value handed to
// the client is never stored; only its sha256 hex digest is. Rows are
// deleted on consume (rotation), on logout, or by the expiry sweep.
type RefreshToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash   string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	DeviceLabel string    `gorm:"not null;size:255;default:'unknown'" json:"device_label"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	User        User      `gorm:"foreignKey:UserID" json:"-"`
}
