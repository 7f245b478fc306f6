package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretsanta_rooms_created_total",
		Help: "Number of rooms created.",
	})

	RoomsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretsanta_rooms_deleted_total",
		Help: "Number of rooms deleted.",
	})

	AssignmentsShuffled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretsanta_assignments_shuffled_total",
		Help: "Number of assignment re-shuffles.",
	})

	RevealsServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "secretsanta_reveals_served_total",
		Help: "Number of assignee reveals served.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "secretsanta_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
)
