package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/namelens/gitrest/internal/errors"
)

// metricsHandler serves the configured gatherer in the Prometheus
// exposition format.
func (s *Server) metricsHandler() http.HandlerFunc {
	if s.opts.Gatherer == nil {
		return func(w http.ResponseWriter, r *http.Request) {
			apperrors.RespondWithError(w, r, apperrors.NewServiceUnavailableError("Metrics registry not initialized"))
		}
	}

	handler := promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	return handler.ServeHTTP
}
