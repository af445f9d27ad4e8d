package models

import "time"

// BlacklistEntry marks one access token as revoked before its natural
// expiry. TokenID is the jti claim embedded at issuance. ExpiresAt mirrors
// the token's own expiry, so the row is only needed until then.
type BlacklistEntry struct {
	TokenID   string    `gorm:"primaryKey;size:36" json:"token_id"`
	Reason    string    `gorm:"size:255" json:"reason"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (BlacklistEntry) TableName() string { return "token_blacklist" }
