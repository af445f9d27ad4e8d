package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movaride/movaride-backend/internal/dto"
	"github.com/movaride/movaride-backend/internal/models"
)

func TestUserRegisterAndAuthenticate(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register(&dto.SignupRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	}, models.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	got, err := svc.Authenticate("ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate("nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserRegisterValidation(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	_, err := svc.Register(&dto.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "short",
	}, models.RoleUser)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(&dto.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	}, models.RoleUser)
	require.NoError(t, err)

	_, err = svc.Register(&dto.SignupRequest{
		Name: "Other Ada", Email: "ada@example.com", Password: "correct horse",
	}, models.RoleUser)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserDirectoryFindByID(t *testing.T) {
	svc := NewUserService(newTestDB(t))

	user, err := svc.Register(&dto.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	}, models.RoleAdmin)
	require.NoError(t, err)

	identity, err := svc.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, models.RoleAdmin, identity.Role)

	// Missing user is (nil, nil), not an error.
	identity, err = svc.FindByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestIncrementTokenVersion(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user, err := svc.Register(&dto.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	}, models.RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.IncrementTokenVersion(user.ID))
	require.NoError(t, svc.IncrementTokenVersion(user.ID))

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", user.ID).Error)
	assert.Equal(t, 2, got.TokenVersion)
}
