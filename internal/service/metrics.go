package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_request_duration_seconds",
			Help:    "Time taken to execute a search against the in-memory index.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
		[]string{"lang"},
	)

	searchResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_result_count",
			Help:    "Number of hits returned per search.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"lang"},
	)
)
