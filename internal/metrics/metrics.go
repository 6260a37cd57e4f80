// Package metrics exposes Prometheus counters for the catalog cache and the
// recommender policy.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogCacheLookups counts document cache lookups by kind (search, recs) and result (hit, miss).
	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	// CatalogFallbacks counts fallback recommendation lists served, by reason.
	CatalogFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_catalog_fallbacks_total",
			Help: "Fallback recommendation lists served",
		},
		[]string{"reason"}, // "no_seeds", "provider_error", "no_usable_tracks"
	)

	// ProviderErrors counts failed catalog provider calls by operation.
	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_provider_errors_total",
			Help: "Catalog provider call failures",
		},
		[]string{"operation"},
	)

	// FeedbackEvents counts feedback updates by value.
	FeedbackEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_feedback_events_total",
			Help: "Feedback events applied to user profiles",
		},
		[]string{"feedback"},
	)

	// Selections counts select decisions by mode (explore, exploit, recovered).
	Selections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_selections_total",
			Help: "Candidate selections by policy mode",
		},
		[]string{"mode"},
	)

	// PersistenceErrors counts swallowed storage failures by operation.
	PersistenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aidj_persistence_errors_total",
			Help: "Cache and profile storage failures",
		},
		[]string{"operation"},
	)
)
