package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/movaride/movaride-backend/internal/models"
)

var ErrVerificationFailed = errors.New("invalid or expired verification token")

const verificationTokenTTL = 24 * time.Hour

// Mailer delivers verification links. Delivery is an external collaborator;
// LogMailer is the default used outside production.
type Mailer interface {
	SendVerification(email, link string) error
}

// LogMailer writes the link to the log instead of sending mail.
type LogMailer struct{}

func (LogMailer) SendVerification(email, link string) error {
	slog.Info("verification email", "to", email, "link", link)
	return nil
}

type VerificationService struct {
	db      *gorm.DB
	mailer  Mailer
	baseURL string
}

func NewVerificationService(db *gorm.DB, mailer Mailer, baseURL string) *VerificationService {
	return &VerificationService{db: db, mailer: mailer, baseURL: baseURL}
}

// Send issues a fresh single-use token for the email and mails the link.
// Any previous token for the same identifier is dropped first.
func (s *VerificationService) Send(email string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return ErrUserNotFound
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	token := hex.EncodeToString(raw)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("identifier = ?", email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.VerificationToken{
			Identifier: email,
			TokenHash:  hashVerification(token),
			ExpiresAt:  time.Now().Add(verificationTokenTTL),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	link := fmt.Sprintf("%s/api/verify?token=%s&email=%s", s.baseURL, token, email)
	return s.mailer.SendVerification(email, link)
}

// Confirm consumes the token and marks the user verified. The token row is
// deleted in the same transaction, so a value confirms at most once.
func (s *VerificationService) Confirm(email, token string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("identifier = ? AND token_hash = ? AND expires_at > ?",
			email, hashVerification(token), time.Now()).
			Delete(&models.VerificationToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVerificationFailed
		}
		return tx.Model(&models.User{}).
			Where("email = ?", email).
			Update("email_verified", true).Error
	})
}

func hashVerification(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
