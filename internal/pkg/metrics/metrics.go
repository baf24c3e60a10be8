// Package metrics holds the Prometheus collectors of the read API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceHTTP  = "http"
	SourceProbe = "probe"
)

var (
	// storeQueries counts store round trips by strategy
	storeQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_store_queries_total",
		Help: "Store round trips issued while serving a read, by strategy",
	}, []string{"strategy"})

	// fetchDuration tracks end-to-end read latency
	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_fetch_duration_seconds",
		Help:    "Order graph read duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"strategy", "source"})

	// fetchErrors counts failed reads by strategy
	fetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_fetch_errors_total",
		Help: "Failed order graph reads, by strategy",
	}, []string{"strategy", "source"})
)

// ObserveFetch records one read.
func ObserveFetch(strategy, source string, queries int64, elapsed time.Duration, err error) {
	storeQueries.WithLabelValues(strategy).Add(float64(queries))
	fetchDuration.WithLabelValues(strategy, source).Observe(elapsed.Seconds())
	if err != nil {
		fetchErrors.WithLabelValues(strategy, source).Inc()
	}
}
