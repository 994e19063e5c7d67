package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics
var (
	SessionCommitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_picker_session_commits_total",
			Help: "Total number of crop-state commits (list rebuilds)",
		},
	)

	SessionEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_picker_session_entries",
			Help: "Number of entries in the current crop session",
		},
	)
)

// Export pipeline metrics
var (
	ExportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_picker_export_runs_total",
			Help: "Total number of export pipeline runs",
		},
		[]string{"status"}, // "success", "error"
	)

	ExportAssetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_picker_export_assets_total",
			Help: "Total number of assets processed by the export pipeline",
		},
		[]string{"result"}, // "cropped", "sampled", "passthrough"
	)

	ExportFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_picker_export_failures_total",
			Help: "Total number of fatal export failures by stage",
		},
		[]string{"stage"}, // "fetch", "sample", "crop"
	)

	ExportRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_picker_export_run_duration_seconds",
			Help:    "Wall-clock duration of a full export run in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)
)

// Sampler metrics
var (
	SamplerOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_picker_sampler_operation_duration_seconds",
			Help:    "Duration of sampling primitive calls in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"}, // "sample", "crop"
	)
)
