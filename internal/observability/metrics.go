package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// Registry holds every metric the process exports. It is nil until
	// InitMetrics runs.
	Registry *prometheus.Registry

	// metricsServer is the dedicated Prometheus listener, if any.
	metricsServer *http.Server

	// metricsPort stores the port the Prometheus listener is bound to
	metricsPort int
)

// InitMetrics creates the process registry with the Go runtime and process
// collectors. It does not open a listener; the main server exposes the
// registry at /metrics.
func InitMetrics() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	Registry = registry
	return registry
}

// ServeMetrics starts a dedicated Prometheus listener for registry on port
// (use 0 for random assignment) and returns once the port is bound.
func ServeMetrics(registry *prometheus.Registry, port int) error {
	if registry == nil {
		return errors.New("metrics registry not initialized")
	}
	if port < 0 {
		port = 0
	}
	metricsPort = port

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	if actualPort, err := resolvePort(listener.Addr().String()); err == nil {
		metricsPort = actualPort
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if ServerLogger != nil {
				ServerLogger.Error("Metrics listener stopped", zap.Error(err))
			}
		}
	}()
	return nil
}

// ShutdownMetrics stops the dedicated listener started by ServeMetrics.
func ShutdownMetrics(ctx context.Context) error {
	if metricsServer == nil {
		return nil
	}
	err := metricsServer.Shutdown(ctx)
	metricsServer = nil
	return err
}

// GetMetricsPort returns the port the Prometheus listener is bound to
func GetMetricsPort() int {
	return metricsPort
}

func resolvePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, err
	}
	return port, nil
}
