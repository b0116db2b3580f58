package main

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics are the Prometheus collectors exported on /metrics.
type serverMetrics struct {
	calculations    *prometheus.CounterVec
	infeasible      prometheus.Counter
	errors          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var metrics = newServerMetrics(prometheus.DefaultRegisterer)

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		calculations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutri_calculations_total",
			Help: "Total number of successful macro calculations by goal",
		}, []string{"goal"}),

		infeasible: factory.NewCounter(prometheus.CounterOpts{
			Name: "nutri_calculations_infeasible_total",
			Help: "Calculations whose carb allocation was floored at zero",
		}),

		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nutri_calculation_errors_total",
			Help: "Rejected calculation requests by error kind",
		}, []string{"kind"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nutri_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
}

// metricsMiddleware records request duration keyed by the matched route
// pattern, so /api/calculations/:id is one series rather than one per id.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.requestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
