package http

import (
	"net/http"

	"auxreport/internal/infrastructure"
)

// MetricsHandler serves the Prometheus scrape endpoint
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler creates a metrics handler from the telemetry providers.
// Without a prometheus exporter the endpoint answers 404.
func NewMetricsHandler(providers *infrastructure.OTelProviders) *MetricsHandler {
	var h http.Handler
	if providers != nil {
		h = providers.PrometheusHTTP
	}
	return &MetricsHandler{handler: h}
}

// Enabled reports whether a scrape handler is available
func (h *MetricsHandler) Enabled() bool {
	return h.handler != nil
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.handler == nil {
		http.NotFound(w, r)
		return
	}
	h.handler.ServeHTTP(w, r)
}
