package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entries_created_total",
			Help: "Total number of journal entries created",
		},
	)

	EntriesUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entries_updated_total",
			Help: "Total number of journal entries replaced",
		},
	)

	EntriesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entries_deleted_total",
			Help: "Total number of journal entries deleted",
		},
	)

	OwnershipDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "entry_ownership_denials_total",
			Help: "Total number of entry accesses denied for wrong owner",
		},
	)
)
