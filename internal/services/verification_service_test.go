package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movaride/movaride-backend/internal/models"
)

type captureMailer struct {
	to   string
	link string
}

func (m *captureMailer) SendVerification(email, link string) error {
	m.to = email
	m.link = link
	return nil
}

func (m *captureMailer) token(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(m.link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestVerificationSingleUse(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	mailer := &captureMailer{}
	svc := NewVerificationService(db, mailer, "http://localhost:8080")

	user := registerUser(t, users, "ada@example.com", models.RoleUser)
	require.False(t, user.EmailVerified)

	require.NoError(t, svc.Send("ada@example.com"))
	assert.Equal(t, "ada@example.com", mailer.to)
	token := mailer.token(t)
	require.NotEmpty(t, token)

	require.NoError(t, svc.Confirm("ada@example.com", token))

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.True(t, got.EmailVerified)

	// Consumed on use.
	assert.ErrorIs(t, svc.Confirm("ada@example.com", token), ErrVerificationFailed)
}

func TestVerificationReissueInvalidatesOldToken(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	mailer := &captureMailer{}
	svc := NewVerificationService(db, mailer, "http://localhost:8080")

	registerUser(t, users, "ada@example.com", models.RoleUser)

	require.NoError(t, svc.Send("ada@example.com"))
	first := mailer.token(t)
	require.NoError(t, svc.Send("ada@example.com"))
	second := mailer.token(t)
	require.NotEqual(t, first, second)

	assert.ErrorIs(t, svc.Confirm("ada@example.com", first), ErrVerificationFailed)
	assert.NoError(t, svc.Confirm("ada@example.com", second))
}

func TestVerificationUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewVerificationService(db, &captureMailer{}, "http://localhost:8080")

	assert.ErrorIs(t, svc.Send("nobody@example.com"), ErrUserNotFound)
	assert.ErrorIs(t, svc.Confirm("nobody@example.com", "whatever"), ErrVerificationFailed)
}

var _ Mailer = (*captureMailer)(nil)
