// Package metrics holds the Prometheus metrics of the gitrest server. The
// package functions are no-ops until Init registers the collectors.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gitrest"

type collectors struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec

	errorsTotal      *prometheus.CounterVec
	panicsTotal      prometheus.Counter
	errorsByEndpoint *prometheus.CounterVec

	healthCheckTotal    *prometheus.CounterVec
	healthCheckDuration *prometheus.HistogramVec

	serverStartTime prometheus.Gauge
}

var (
	mu      sync.RWMutex
	current *collectors
)

var sizeBuckets = prometheus.ExponentialBuckets(64, 4, 8)

// Init registers the server metrics on registerer, replacing any previous
// registration target.
func Init(registerer prometheus.Registerer) {
	factory := promauto.With(registerer)
	c := &collectors{
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"method", "endpoint", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint", "status"}),
		httpRequestSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_size_bytes",
			Help:      "Size of HTTP request bodies in bytes",
			Buckets:   sizeBuckets,
		}, []string{"method", "endpoint"}),
		httpResponseSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "Size of HTTP response bodies in bytes",
			Buckets:   sizeBuckets,
		}, []string{"method", "endpoint"}),
		httpErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP responses with a 4xx or 5xx status",
		}, []string{"method", "endpoint", "status", "error_type"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of error envelopes written, by code",
		}, []string{"error_code", "http_status"}),
		panicsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Total number of recovered handler panics",
		}),
		errorsByEndpoint: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of error envelopes written, by endpoint",
		}, []string{"endpoint", "error_code"}),
		healthCheckTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "health_check_total",
			Help:      "Total number of health check executions",
		}, []string{"check", "status"}),
		healthCheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "health_check_duration_seconds",
			Help:      "Duration of health check executions in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"check"}),
		serverStartTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "server_start_time_seconds",
			Help:      "Unix time the server started",
		}),
	}

	mu.Lock()
	current = c
	mu.Unlock()
}

// Reset drops the registered collectors; subsequent calls record nothing.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}

func get() *collectors {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Enabled reports whether Init has run.
func Enabled() bool {
	return get() != nil
}

// RecordHTTPRequest records one served request. errorType is empty for
// responses below 400.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration, requestSize, responseSize int64) {
	c := get()
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.httpRequestsTotal.WithLabelValues(method, endpoint, code).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint, code).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, endpoint).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))

	if status >= 400 {
		errorType := "client_error"
		if status >= 500 {
			errorType = "server_error"
		}
		c.httpErrorsTotal.WithLabelValues(method, endpoint, code, errorType).Inc()
	}
}

// RecordHealthCheck records a health check execution
func RecordHealthCheck(checkName, status string, duration time.Duration) {
	c := get()
	if c == nil {
		return
	}
	c.healthCheckTotal.WithLabelValues(checkName, status).Inc()
	c.healthCheckDuration.WithLabelValues(checkName).Observe(duration.Seconds())
}

// SetServerStartTime records the server start time
func SetServerStartTime(t time.Time) {
	c := get()
	if c == nil {
		return
	}
	c.serverStartTime.Set(float64(t.Unix()))
}
