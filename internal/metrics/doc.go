// Package metrics provides Prometheus instrumentation for the media
// picker. All metrics are prefixed with "media_picker_" to avoid naming
// collisions with other applications.
//
// Three categories exist:
//
//   - Session metrics: crop-state commits and the current entry count.
//   - Export metrics: pipeline runs, per-asset outcomes, run duration.
//   - Sampler metrics: durations of the sample and crop primitives.
//
// Call InitializeMetrics once at startup so every label combination is
// present from the first scrape, and mount Handler on the metrics port.
package metrics
