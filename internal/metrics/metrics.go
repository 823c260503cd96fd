// Package metrics exposes Prometheus collectors for the chatbot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Intents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicbot_intents_total",
			Help: "Total number of classified chat inputs by intent",
		},
		[]string{"intent"},
	)

	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicbot_model_calls_total",
			Help: "Total number of model completion calls by outcome",
		},
		[]string{"outcome"},
	)

	ModelCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "unicbot_model_call_duration_seconds",
			Help:    "Duration of model completion calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	Documents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unicbot_documents_total",
			Help: "Total number of uploaded documents by kind (pdf, text, unsupported) and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "unicbot_active_sessions",
			Help: "Number of live chat sessions",
		},
	)
)
