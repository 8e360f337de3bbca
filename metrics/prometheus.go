package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RFMComputeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "salesdash_rfm_compute_duration_seconds",
			Help:    "Time spent scoring and segmenting customers",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	OrdersLoaded = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "salesdash_orders_loaded",
			Help:    "Order lines loaded per dashboard request",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
		[]string{"source"},
	)

	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "salesdash_cache_requests_total",
			Help: "Dashboard cache lookups",
		},
		[]string{"result"},
	)

	OrdersIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "salesdash_orders_ingested_total",
			Help: "Order lines written through the ingest endpoint",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestTotal,
		RFMComputeDuration,
		OrdersLoaded,
		CacheRequests,
		OrdersIngested,
	)
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		RequestTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
