package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitializeMetrics pre-populates all expected label combinations so
// that every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error"} {
		ExportRunsTotal.WithLabelValues(status)
	}

	for _, result := range []string{"cropped", "sampled", "passthrough"} {
		ExportAssetsTotal.WithLabelValues(result)
	}

	for _, stage := range []string{"fetch", "sample", "crop"} {
		ExportFailuresTotal.WithLabelValues(stage)
	}

	for _, op := range []string{"sample", "crop"} {
		SamplerOperationDuration.WithLabelValues(op)
	}
}

// Handler returns the HTTP handler that serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
