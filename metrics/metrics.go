// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResultsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_match_results_processed_total",
		Help: "Match results accepted, by context and outcome.",
	}, []string{"context", "outcome"})

	ResultsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_match_results_rejected_total",
		Help: "Match results rejected, by error kind.",
	}, []string{"kind"})

	CommitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_commit_retries_total",
		Help: "Optimistic-concurrency retries during result processing.",
	})

	PlayoffsQualified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_playoff_qualifications_total",
		Help: "League seasons transitioned into playoffs.",
	})
)
