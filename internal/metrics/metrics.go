package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Token lifecycle counters, exposed on /metrics.
var (
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_issued_total",
		Help: "Access/refresh token pairs issued.",
	})

	TokensRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_tokens_revoked_total",
		Help: "Access tokens blacklisted before natural expiry.",
	})

	RefreshRotations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_refresh_rotations_total",
		Help: "Successful refresh token exchanges.",
	})

	RefreshRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_refresh_rejected_total",
		Help: "Refresh attempts with an unknown or expired token, including replays.",
	})

	SweepDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_sweep_deleted_total",
		Help: "Rows reclaimed by the expiry sweep.",
	}, []string{"kind"})
)
