package models

import "time"

// VerificationToken is a single-use email verification token. Stored hashed,
// deleted on use. At most one live token per identifier.
type VerificationToken struct {
	Identifier string    `gorm:"primaryKey;size:255" json:"identifier"`
	TokenHash  string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}
