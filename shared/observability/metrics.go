package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_http_requests_total",
			Help: "HTTP requests served, by route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversation_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	searchQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "conversation_search_queries_total",
			Help: "Message search queries executed.",
		},
	)

	bulkBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conversation_bulk_batch_size",
			Help:    "Session count per bulk summary request.",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		},
	)
)

// RecordSearchQuery counts an executed message search
func RecordSearchQuery() {
	searchQueriesTotal.Inc()
}

// RecordBulkBatch records the size of a bulk summary request
func RecordBulkBatch(size int) {
	bulkBatchSize.Observe(float64(size))
}

// MetricsMiddleware records request counts and latency per route
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
