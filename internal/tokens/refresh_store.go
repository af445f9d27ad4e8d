package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movaride/movaride-backend/internal/models"
)

// RefreshTokenStore owns the refresh_tokens table: one row per live device
// session, stored as a sha256 digest of the opaque value.
type RefreshTokenStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewRefreshTokenStore(db *gorm.DB, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{db: db, ttl: ttl}
}

// Create persists a new record for the user/device and returns the opaque
// value. The value has 256 bits of entropy and is never stored in the clear.
func (s *RefreshTokenStore) Create(userID uuid.UUID, deviceLabel string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	value := base64.URLEncoding.EncodeToString(raw)

	record := models.RefreshToken{
		ID:          uuid.New(),
		UserID:      userID,
		TokenHash:   hashValue(value),
		DeviceLabel: deviceLabel,
		ExpiresAt:   time.Now().Add(s.ttl),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}
	return value, nil
}

// Consume looks up and deletes the record in a single conditional delete, so
// two concurrent exchanges of the same value see exactly one winner; the
// loser gets ErrNotFound. An expired record is still deleted, and reported
// as ErrExpired.
func (s *RefreshTokenStore) Consume(value string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	res := s.db.Clauses(clause.Returning{}).
		Where("token_hash = ?", hashValue(value)).
		Delete(&record)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to consume refresh token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrExpired
	}
	return &record, nil
}

// RevokeForDevice deletes every record matching the user and device label.
func (s *RefreshTokenStore) RevokeForDevice(userID uuid.UUID, deviceLabel string) error {
	return s.db.
		Where("user_id = ? AND device_label = ?", userID, deviceLabel).
		Delete(&models.RefreshToken{}).Error
}

// RevokeAll deletes every record for the user.
func (s *RefreshTokenStore) RevokeAll(userID uuid.UUID) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

// SweepExpired deletes records past their expiry and returns how many went.
func (s *RefreshTokenStore) SweepExpired(now time.Time) (int64, error) {
	res := s.db.Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

func hashValue(value string) string {
	h := sha256.Sum256([]byte(value))
	return fmt.Sprintf("%x", h)
}
