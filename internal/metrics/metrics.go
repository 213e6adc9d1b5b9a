// Package metrics exposes Prometheus collectors for the puzzle client. A
// short-lived CLI has no scrape endpoint, so collectors are written to a
// node-exporter textfile when the process exits.
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exchangesTotal          *prometheus.CounterVec
	exchangeDurationSeconds *prometheus.HistogramVec
	outcomesTotal           *prometheus.CounterVec
	cacheLookupsTotal       *prometheus.CounterVec
	cacheWriteFailuresTotal prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		exchangesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aoc_exchanges_total",
				Help: "Total number of request/response exchanges, labeled by method and result.",
			},
			[]string{"method", "result"},
		)

		exchangeDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aoc_exchange_duration_seconds",
				Help:    "Histogram of exchange latencies, labeled by method.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method"},
		)

		outcomesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aoc_outcomes_total",
				Help: "Total number of classified responses, labeled by outcome kind.",
			},
			[]string{"kind"},
		)

		cacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aoc_cache_lookups_total",
				Help: "Total number of cache lookups, labeled by content kind and result.",
			},
			[]string{"kind", "result"},
		)

		cacheWriteFailuresTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "aoc_cache_write_failures_total",
				Help: "Total number of fetched entries that could not be persisted.",
			},
		)
	})
}

// ObserveExchange records one transport round trip.
func ObserveExchange(method string, err error, duration time.Duration) {
	Init()
	result := "ok"
	if err != nil {
		result = "error"
	}
	exchangesTotal.WithLabelValues(strings.ToUpper(method), result).Inc()
	exchangeDurationSeconds.WithLabelValues(strings.ToUpper(method)).Observe(duration.Seconds())
}

// ObserveOutcome counts a classified response.
func ObserveOutcome(kind string) {
	Init()
	outcomesTotal.WithLabelValues(kind).Inc()
}

// ObserveCacheLookup counts a cache hit or miss for kind.
func ObserveCacheLookup(kind string, hit bool) {
	Init()
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(kind, result).Inc()
}

// ObserveCacheWriteFailure counts a fetched entry that was not persisted.
func ObserveCacheWriteFailure() {
	Init()
	cacheWriteFailuresTotal.Inc()
}

// WriteTextfile dumps the default registry in the text exposition format.
func WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
