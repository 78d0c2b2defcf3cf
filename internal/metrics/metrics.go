package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"task-service.com/task-service/internal/database"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "Current number of in-flight HTTP requests",
		},
	)

	// SortFallbacks counts list requests whose sort or order value was not
	// allow-listed and was replaced by the default.
	SortFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_sort_fallbacks_total",
			Help: "Total number of rejected sort/order parameters replaced by defaults",
		},
		[]string{"param"},
	)

	RawQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diagnostic_raw_queries_total",
			Help: "Diagnostic raw query attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// PoolCollector exports connection pool utilization at scrape time.
type PoolCollector struct {
	stats   func() database.PoolStats
	total   *prometheus.Desc
	idle    *prometheus.Desc
	waiting *prometheus.Desc
}

func NewPoolCollector(stats func() database.PoolStats) *PoolCollector {
	return &PoolCollector{
		stats:   stats,
		total:   prometheus.NewDesc("db_pool_connections_total", "Open database connections", nil, nil),
		idle:    prometheus.NewDesc("db_pool_connections_idle", "Idle database connections", nil, nil),
		waiting: prometheus.NewDesc("db_pool_waiting", "Callers waiting for a database connection", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.idle
	ch <- c.waiting
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.Total))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.Waiting))
}
