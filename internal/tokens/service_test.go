package tokens

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, db *gorm.DB, refreshTTL time.Duration, dir staticDirectory) *Service {
	t.Helper()
	return NewService(
		NewSigner("test-secret", 15*time.Minute),
		NewRefreshTokenStore(db, refreshTTL),
		NewBlacklist(db),
		dir,
	)
}

func TestIssuePairThenVerify(t *testing.T) {
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, staticDirectory{})
	userID := uuid.New()

	pair, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)
	assert.Equal(t, int64(900), pair.ExpiresIn)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "rider@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestVerifyAccessRevoked(t *testing.T) {
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, staticDirectory{})

	pair, err := svc.IssuePair(uuid.New(), "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAccessToken(pair.AccessToken, "user logout"))

	// Cryptographically valid and unexpired, yet rejected.
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestRevokeAccessTokenUnparseable(t *testing.T) {
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, staticDirectory{})

	assert.ErrorIs(t, svc.RevokeAccessToken("garbage", "user logout"), ErrInvalidToken)
}

func TestRefreshRotation(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, dir)

	pair, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	rotated, err := svc.Refresh(pair.RefreshToken, "Chrome")
	require.NoError(t, err)
	require.NotEmpty(t, rotated.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	claims, err := svc.VerifyAccess(rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	// The consumed value is dead.
	_, err = svc.Refresh(pair.RefreshToken, "Chrome")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshDoesNotDistinguishExpiredFromUnknown(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), -time.Hour, dir)

	pair, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	_, expiredErr := svc.Refresh(pair.RefreshToken, "Chrome")
	_, unknownErr := svc.Refresh("never-issued", "Chrome")
	assert.ErrorIs(t, expiredErr, ErrInvalidRefreshToken)
	assert.ErrorIs(t, unknownErr, ErrInvalidRefreshToken)
	assert.Equal(t, expiredErr, unknownErr)
}

func TestRefreshUserGone(t *testing.T) {
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, staticDirectory{})

	pair, err := svc.IssuePair(uuid.New(), "ghost@example.com", "user", "Chrome")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.RefreshToken, "Chrome")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, dir)

	pair, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Refresh(pair.RefreshToken, "Chrome")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		}
	}
	assert.Equal(t, 1, wins, "the same refresh token must never be exchanged twice")
}

func TestLogoutSingleDevice(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, dir)

	chrome, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)
	firefox, err := svc.IssuePair(userID, "rider@example.com", "user", "Firefox")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(chrome.AccessToken, "Chrome", false))

	// The access token is revoked and the device's refresh token gone.
	_, err = svc.VerifyAccess(chrome.AccessToken)
	assert.ErrorIs(t, err, ErrRevoked)
	_, err = svc.Refresh(chrome.RefreshToken, "Chrome")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// The other device's session is untouched.
	_, err = svc.Refresh(firefox.RefreshToken, "Firefox")
	assert.NoError(t, err)
}

func TestLogoutAllDevices(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, dir)

	chrome, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)
	firefox, err := svc.IssuePair(userID, "rider@example.com", "user", "Firefox")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(chrome.AccessToken, "Chrome", true))

	_, err = svc.Refresh(chrome.RefreshToken, "Chrome")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, err = svc.Refresh(firefox.RefreshToken, "Firefox")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutBadInput(t *testing.T) {
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, staticDirectory{})

	assert.ErrorIs(t, svc.Logout("", "Chrome", false), ErrMissingToken)
	assert.ErrorIs(t, svc.Logout("garbage", "Chrome", false), ErrInvalidToken)
}

func TestInvalidateAllUserTokens(t *testing.T) {
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}
	svc := newTestService(t, newTestDB(t), 7*24*time.Hour, dir)

	pair, err := svc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateAllUserTokens(userID))

	_, err = svc.Refresh(pair.RefreshToken, "Chrome")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// Already-issued access tokens ride out their lifetime by policy.
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)
}

func TestSweepReclaimsExpiredRows(t *testing.T) {
	db := newTestDB(t)
	userID := uuid.New()
	dir := staticDirectory{
		userID: {ID: userID, Email: "rider@example.com", Role: "user"},
	}

	expiredSvc := newTestService(t, db, -time.Hour, dir)
	_, err := expiredSvc.IssuePair(userID, "rider@example.com", "user", "Chrome")
	require.NoError(t, err)

	svc := newTestService(t, db, 7*24*time.Hour, dir)
	require.NoError(t, svc.blacklist.Add("stale-jti", "user logout", time.Now().Add(-time.Second)))

	result, err := svc.Sweep(time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.RefreshTokens)
	assert.Equal(t, int64(1), result.BlacklistEntries)

	revoked, err := svc.blacklist.Contains("stale-jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
