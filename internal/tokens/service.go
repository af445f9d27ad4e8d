package tokens

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/movaride/movaride-backend/internal/metrics"
)

// DefaultDeviceLabel is used when the caller supplies no device information.
const DefaultDeviceLabel = "unknown"

// Identity is the slice of a user record the token lifecycle needs.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  string
}

// UserDirectory is the user-record collaborator. Refresh re-reads the
// identity through it so rotated tokens always carry current email/role.
type UserDirectory interface {
	FindByID(id uuid.UUID) (*Identity, error)
	IncrementTokenVersion(id uuid.UUID) error
}

// Pair is one access/refresh issuance. ExpiresIn is the access-token
// lifetime in seconds.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SweepResult reports rows reclaimed by one maintenance pass.
type SweepResult struct {
	RefreshTokens    int64 `json:"refresh_tokens"`
	BlacklistEntries int64 `json:"blacklist_entries"`
}

// Service orchestrates Signer, RefreshTokenStore and Blacklist into the
// issue / verify / refresh / revoke operations the routing layer exposes.
type Service struct {
	signer    *Signer
	refresh   *RefreshTokenStore
	blacklist *Blacklist
	users     UserDirectory
}

func NewService(signer *Signer, refresh *RefreshTokenStore, blacklist *Blacklist, users UserDirectory) *Service {
	return &Service{
		signer:    signer,
		refresh:   refresh,
		blacklist: blacklist,
		users:     users,
	}
}

// IssuePair signs a fresh access token and persists a new refresh token for
// the device. It never touches the blacklist.
func (s *Service) IssuePair(userID uuid.UUID, email, role, deviceLabel string) (*Pair, error) {
	accessToken, _, err := s.signer.Sign(userID, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.refresh.Create(userID, normalizeDevice(deviceLabel))
	if err != nil {
		return nil, err
	}

	metrics.TokensIssued.Inc()
	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.signer.TTL().Seconds()),
	}, nil
}

// VerifyAccess validates an access token for request authorization. The
// cheap cryptographic check runs first; only a token that passes it costs a
// blacklist round-trip. A blacklisted identity fails with ErrRevoked even
// though signature and expiry are fine.
func (s *Service) VerifyAccess(token string) (*AccessClaims, error) {
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.Contains(claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the old value
// out. The old record is deleted before anything new is issued, so a crash
// in between leaves a dead session, never two live ones. Missing and
// expired tokens are reported identically.
func (s *Service) Refresh(value, deviceLabel string) (*Pair, error) {
	record, err := s.refresh.Consume(value)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired) {
			metrics.RefreshRejected.Inc()
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	identity, err := s.users.FindByID(record.UserID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.IssuePair(identity.ID, identity.Email, identity.Role, deviceLabel)
	if err != nil {
		return nil, err
	}
	metrics.RefreshRotations.Inc()
	return pair, nil
}

// RevokeAccessToken blacklists the token's identity until the token's own
// expiry. The token is decoded without signature verification on purpose: a
// caller logging out must be able to revoke a token that no longer
// validates, and the decoded claims are only written to the blacklist,
// never trusted for access.
func (s *Service) RevokeAccessToken(token, reason string) error {
	claims, err := s.signer.Decode(token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}

	if err := s.blacklist.Add(claims.ID, reason, claims.ExpiresAt.Time); err != nil {
		return err
	}
	metrics.TokensRevoked.Inc()
	return nil
}

// Logout revokes the presented access token and deletes the caller's
// refresh tokens, for one device or all of them. A blacklist write failure
// is a server fault and surfaces as ErrBlacklistUnavailable.
func (s *Service) Logout(accessToken, deviceLabel string, allDevices bool) error {
	if accessToken == "" {
		return ErrMissingToken
	}

	claims, err := s.signer.Decode(accessToken)
	if err != nil || claims.UserID == uuid.Nil {
		return ErrInvalidToken
	}

	if err := s.RevokeAccessToken(accessToken, "user logout"); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return ErrInvalidToken
		}
		return fmt.Errorf("%w: %v", ErrBlacklistUnavailable, err)
	}

	if allDevices {
		return s.refresh.RevokeAll(claims.UserID)
	}
	return s.refresh.RevokeForDevice(claims.UserID, normalizeDevice(deviceLabel))
}

// InvalidateAllUserTokens force-logs-out a user by deleting every refresh
// token. Already-issued access tokens ride out their remaining lifetime;
// the bounded exposure window is an accepted trade-off.
func (s *Service) InvalidateAllUserTokens(userID uuid.UUID) error {
	return s.refresh.RevokeAll(userID)
}

// Sweep reclaims expired refresh tokens and blacklist entries. Expired rows
// are already functionally inert, so this is storage hygiene, not security,
// and is safe to run on any schedule.
func (s *Service) Sweep(now time.Time) (SweepResult, error) {
	var result SweepResult

	n, err := s.refresh.SweepExpired(now)
	if err != nil {
		return result, fmt.Errorf("refresh token sweep failed: %w", err)
	}
	result.RefreshTokens = n
	metrics.SweepDeleted.WithLabelValues("refresh_token").Add(float64(n))

	n, err = s.blacklist.SweepExpired(now)
	if err != nil {
		return result, fmt.Errorf("blacklist sweep failed: %w", err)
	}
	result.BlacklistEntries = n
	metrics.SweepDeleted.WithLabelValues("blacklist_entry").Add(float64(n))

	if result.RefreshTokens > 0 || result.BlacklistEntries > 0 {
		slog.Info("token sweep completed",
			"refresh_tokens", result.RefreshTokens,
			"blacklist_entries", result.BlacklistEntries)
	}
	return result, nil
}

func normalizeDevice(label string) string {
	if label == "" {
		return DefaultDeviceLabel
	}
	return label
}
