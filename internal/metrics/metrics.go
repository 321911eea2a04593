package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream fetch instrumentation. Label "result" is ok|transport|not_found|
// mode_unsupported; "partition" is the "game:category|mode" key.
var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exile_tracker",
		Name:      "fetch_total",
		Help:      "Upstream overview fetches by partition and result.",
	}, []string{"partition", "result"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "exile_tracker",
		Name:      "fetch_duration_seconds",
		Help:      "Upstream overview fetch latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"partition"})

	SnapshotEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "exile_tracker",
		Name:      "snapshot_entries",
		Help:      "Entry count of the last published snapshot per partition.",
	}, []string{"partition"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "exile_tracker",
		Name:      "cache_hits_total",
		Help:      "Snapshot cache lookups by outcome (hit, stale, miss).",
	}, []string{"outcome"})

	RefreshState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "exile_tracker",
		Name:      "refresh_state",
		Help:      "Current refresh controller state (1 for the active state).",
	}, []string{"state"})

	CategoriesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "exile_tracker",
		Name:      "categories_pruned_total",
		Help:      "Categories removed after the upstream reported no dataset.",
	})
)

// ObserveFetch records one upstream fetch outcome.
func ObserveFetch(partition, result string, elapsed time.Duration) {
	FetchTotal.WithLabelValues(partition, result).Inc()
	FetchDuration.WithLabelValues(partition).Observe(elapsed.Seconds())
}

// SetRefreshState flips the state gauge so exactly one state reads 1.
func SetRefreshState(active string) {
	for _, s := range []string{"idle", "fetching", "published", "degraded", "failed"} {
		v := 0.0
		if s == active {
			v = 1
		}
		RefreshState.WithLabelValues(s).Set(v)
	}
}
