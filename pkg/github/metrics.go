package github

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "gitrest"
	metricsSubsystem = "github"
)

// MetricsCollector exports Prometheus metrics for dispatched requests and
// rate-limit state. A nil collector records nothing. It is safe for
// concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec
	errorsTotal      *prometheus.CounterVec

	rateLimitRemaining *prometheus.GaugeVec
	rateLimitTotal     *prometheus.GaugeVec
	rateLimitReset     *prometheus.GaugeVec

	cooldownsTotal  prometheus.Counter
	cooldownSeconds prometheus.Histogram
	latencySeconds  prometheus.Gauge
}

// NewMetricsCollector registers the collector's metrics on the default
// registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry registers the collector's metrics on
// registry.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)
	return &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "requests_total",
				Help:      "Total number of GitHub API requests sent",
			},
			[]string{"method", "status_code", "group"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of GitHub API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "group"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "requests_in_flight",
				Help:      "Number of GitHub API requests currently in flight",
			},
			[]string{"method", "group"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "errors_total",
				Help:      "Total number of failed GitHub API requests by kind",
			},
			[]string{"kind", "method", "group"},
		),
		rateLimitRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "rate_limit_remaining",
				Help:      "Requests remaining in the current rate-limit window",
			},
			[]string{"origin"},
		),
		rateLimitTotal: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "rate_limit_limit",
				Help:      "Request budget of the current rate-limit window",
			},
			[]string{"origin"},
		),
		rateLimitReset: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "rate_limit_reset_timestamp_seconds",
				Help:      "Unix time at which the rate-limit window resets",
			},
			[]string{"origin"},
		),
		cooldownsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cooldowns_total",
				Help:      "Number of requests that waited for a rate-limit reset",
			},
		),
		cooldownSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "cooldown_seconds",
				Help:      "Time spent waiting for rate-limit resets",
				Buckets:   []float64{1, 10, 60, 300, 900, 1800, 3600},
			},
		),
		latencySeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "latency_seconds",
				Help:      "Last measured round trip to the API root",
			},
		),
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, group string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	status := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, status, group).Inc()
	mc.requestDuration.WithLabelValues(method, status, group).Observe(duration.Seconds())
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, group string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, group).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, group string) {
	if mc == nil {
		return
	}
	mc.requestsInFlight.WithLabelValues(method, group).Dec()
}

// RecordError counts a failure of the given kind.
func (mc *MetricsCollector) RecordError(kind, method, group string) {
	if mc == nil {
		return
	}
	mc.errorsTotal.WithLabelValues(kind, method, group).Inc()
}

// RecordRateLimits publishes a fresh snapshot.
func (mc *MetricsCollector) RecordRateLimits(origin string, limits RateLimits) {
	if mc == nil {
		return
	}
	mc.rateLimitRemaining.WithLabelValues(origin).Set(float64(limits.Remaining))
	mc.rateLimitTotal.WithLabelValues(origin).Set(float64(limits.Total))
	mc.rateLimitReset.WithLabelValues(origin).Set(float64(limits.ResetTime.Unix()))
}

// RecordCooldown counts a wait for the reset window.
func (mc *MetricsCollector) RecordCooldown(delay time.Duration) {
	if mc == nil {
		return
	}
	mc.cooldownsTotal.Inc()
	mc.cooldownSeconds.Observe(delay.Seconds())
}

// RecordLatency publishes a latency probe result.
func (mc *MetricsCollector) RecordLatency(latency time.Duration) {
	if mc == nil {
		return
	}
	mc.latencySeconds.Set(latency.Seconds())
}
