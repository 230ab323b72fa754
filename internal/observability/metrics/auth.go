package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total number of successful signups",
		},
	)

	SigninsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signins_total",
			Help: "Total number of successful signins",
		},
	)

	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total number of JWTs issued",
		},
	)

	AccountsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "accounts_deleted_total",
			Help: "Total number of accounts deleted",
		},
	)

	// ExpiredUserRejections counts requests carrying a valid token whose
	// account no longer exists.
	ExpiredUserRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_user_rejections_total",
			Help: "Total number of requests rejected because the token's account is gone",
		},
	)
)
