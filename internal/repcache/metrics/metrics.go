// Package metrics exposes Prometheus metrics for the representative cache.
// All methods are safe on a nil receiver so callers can skip metrics wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	hits        prometheus.Counter
	misses      prometheus.Counter
	cachedRows  prometheus.Counter
	evictedRows prometheus.Counter
	storeErrors *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		hits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicbridge_repcache_hits_total",
			Help: "ZIP lookups served from the representative cache.",
		}),
		misses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicbridge_repcache_misses_total",
			Help: "ZIP lookups that found no visible cached rows.",
		}),
		cachedRows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicbridge_repcache_cached_rows_total",
			Help: "Representative rows written through the cache.",
		}),
		evictedRows: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civicbridge_repcache_evicted_rows_total",
			Help: "Expired representative rows removed by maintenance sweeps.",
		}),
		storeErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civicbridge_repcache_store_errors_total",
			Help: "Storage failures absorbed at the cache boundary, by operation.",
		}, []string{"op"}),
	}
}

func (m *Metrics) RecordHit() {
	if m == nil {
		return
	}
	m.hits.Inc()
}

func (m *Metrics) RecordMiss() {
	if m == nil {
		return
	}
	m.misses.Inc()
}

func (m *Metrics) RecordCachedRows(n int) {
	if m == nil {
		return
	}
	m.cachedRows.Add(float64(n))
}

func (m *Metrics) RecordEvictedRows(n int64) {
	if m == nil {
		return
	}
	m.evictedRows.Add(float64(n))
}

func (m *Metrics) RecordStoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}
