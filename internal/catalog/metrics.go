package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// snapshotsApplied counts full catalog snapshots applied since start.
	snapshotsApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_snapshots_applied_total",
			Help: "Total number of full catalog snapshots applied",
		},
	)

	// rebuildDuration observes how long a full rebuild (projection plus
	// index construction for every language) takes.
	rebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_rebuild_duration_seconds",
			Help:    "Duration of catalog view rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// catalogSize tracks the number of indexable records in the current
	// snapshot.
	catalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_size_records",
			Help: "Number of indexable records in the current catalog snapshot",
		},
	)
)
