// Package metrics exposes the Prometheus instrumentation shared by both
// services: oracle call latency, proposal lifecycle counters and vote
// throughput.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OracleCallDuration tracks latency of voting-power oracle calls by
	// method (user_voting_power / total_voting_power) and outcome.
	OracleCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "govcore",
		Subsystem: "oracle",
		Name:      "call_duration_seconds",
		Help:      "Latency of voting-power oracle calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "outcome"})

	// ProposalsCreated counts proposals created by operation classification
	// tag.
	ProposalsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govcore",
		Subsystem: "proposal",
		Name:      "created_total",
		Help:      "Proposals created, by operation tag.",
	}, []string{"operation_tag"})

	// ProposalsTerminated counts proposal terminations by resulting status.
	ProposalsTerminated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govcore",
		Subsystem: "proposal",
		Name:      "terminated_total",
		Help:      "Proposals terminated, by terminal status.",
	}, []string{"status"})

	// VotesCast counts ballots recorded, by choice.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "govcore",
		Subsystem: "proposal",
		Name:      "votes_cast_total",
		Help:      "Ballots recorded, by choice.",
	}, []string{"choice"})

	// SecurityScore records the latest decentralization score per station,
	// for dashboard scraping.
	SecurityScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "govcore",
		Subsystem: "security",
		Name:      "decentralization_score",
		Help:      "Latest computed decentralization score, 0-100.",
	}, []string{"station"})
)
