package metrics

import "testing"

func TestInitializeMetrics(t *testing.T) {
	// Must be callable repeatedly without panicking; label combinations
	// are idempotent.
	InitializeMetrics()
	InitializeMetrics()
}

func TestHandler(t *testing.T) {
	if Handler() == nil {
		t.Fatal("Handler() returned nil")
	}
}

func TestCountersUsable(t *testing.T) {
	ExportRunsTotal.WithLabelValues("success").Inc()
	ExportAssetsTotal.WithLabelValues("cropped").Inc()
	ExportFailuresTotal.WithLabelValues("fetch").Inc()
	SamplerOperationDuration.WithLabelValues("sample").Observe(0.01)
	SessionCommitsTotal.Inc()
	SessionEntries.Set(3)
}
