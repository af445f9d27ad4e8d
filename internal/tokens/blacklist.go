package tokens

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movaride/movaride-backend/internal/models"
)

// Blacklist records access-token identities revoked before natural expiry.
type Blacklist struct {
	db *gorm.DB
}

func NewBlacklist(db *gorm.DB) *Blacklist {
	return &Blacklist{db: db}
}

// Add upserts an entry for the token identity. If one already exists it is
// left untouched; the first revocation wins.
func (b *Blacklist) Add(tokenID, reason string, expiresAt time.Time) error {
	entry := models.BlacklistEntry{
		TokenID:   tokenID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// Contains reports whether the token identity has an entry. Entry expiry is
// handled solely by the sweep; a present entry counts regardless.
func (b *Blacklist) Contains(tokenID string) (bool, error) {
	var n int64
	err := b.db.Model(&models.BlacklistEntry{}).
		Where("token_id = ?", tokenID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return n > 0, nil
}

// SweepExpired deletes entries whose expiry has passed.
func (b *Blacklist) SweepExpired(now time.Time) (int64, error) {
	res := b.db.Where("expires_at < ?", now).Delete(&models.BlacklistEntry{})
	return res.RowsAffected, res.Error
}
