package tokens

import "errors"

var (
	// Signer verification failures.
	ErrMalformed        = errors.New("token is malformed")
	ErrExpired          = errors.New("token is expired")
	ErrInvalidSignature = errors.New("token signature is invalid")

	// ErrRevoked means the token is cryptographically valid but its identity
	// is on the blacklist.
	ErrRevoked = errors.New("token has been revoked")

	// Refresh store failures.
	ErrNotFound = errors.New("refresh token not found")

	// ErrInvalidRefreshToken is what Refresh reports for both a missing and
	// an expired record, so callers cannot tell whether a value ever existed.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// Logout failures.
	ErrMissingToken         = errors.New("access token is required")
	ErrInvalidToken         = errors.New("access token could not be decoded")
	ErrBlacklistUnavailable = errors.New("failed to blacklist access token")
)
