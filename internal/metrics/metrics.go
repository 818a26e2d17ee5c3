package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geomap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	// Report metrics
	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomap",
		Subsystem: "report",
		Name:      "total",
		Help:      "Reports requested, by outcome (ok or error kind)",
	}, []string{"outcome"})

	RowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomap",
		Subsystem: "report",
		Name:      "rows_total",
		Help:      "Sheet rows read, by whether they were mapped or dropped",
	}, []string{"state"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geomap",
		Subsystem: "report",
		Name:      "duration_seconds",
		Help:      "Time from upload to rendered map",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

// ObserveReport records one report attempt.
func ObserveReport(outcome string, kept, dropped int, elapsed time.Duration) {
	ReportsTotal.WithLabelValues(outcome).Inc()
	RowsTotal.WithLabelValues("kept").Add(float64(kept))
	RowsTotal.WithLabelValues("dropped").Add(float64(dropped))
	ReportDuration.Observe(elapsed.Seconds())
}

// Middleware records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
