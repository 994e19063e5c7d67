package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"media-picker/internal/assets"
	"media-picker/internal/crop"
	"media-picker/internal/logging"
	"media-picker/internal/metrics"
	"media-picker/internal/sampler"
)

// DefaultPreferredSize is the target output dimension at scale 1.0.
const DefaultPreferredSize = 1080

// Pipeline exports a selection using the crop state committed to a
// controller. The caller must Commit the selection before Run so the
// entry list reflects it.
type Pipeline struct {
	// Store supplies the entry list and current aspect ratio.
	Store *crop.Controller
	// Sampler performs the per-image sample and crop steps. May be nil
	// when SkipCrop is set.
	Sampler sampler.Sampler
	// PreferredSize is the target dimension at scale 1.0; zero means
	// DefaultPreferredSize.
	PreferredSize int
	// SkipCrop makes every record a pass-through, image or not.
	SkipCrop bool
}

// New creates a Pipeline with the default preferred size.
func New(store *crop.Controller, smp sampler.Sampler) *Pipeline {
	return &Pipeline{Store: store, Sampler: smp}
}

// TargetDimension computes the sampling dimension for a zoom scale:
// preferred divided by scale, rounded half away from zero. Dividing by
// the scale means a more zoomed-in crop samples at a proportionally
// higher resolution, keeping final output resolution roughly constant
// regardless of zoom. Non-positive scales fall back to the preferred
// size, and the result is never below 1.
func TargetDimension(preferred int, scale float64) int {
	if scale <= 0 {
		return preferred
	}
	dim := int(math.Round(float64(preferred) / scale))
	if dim < 1 {
		dim = 1
	}
	return dim
}

// Run starts an export over the given selection and returns its
// snapshot sequence. The store's entry list is captured once, up front;
// commits made after Run do not affect a running sequence.
func (p *Pipeline) Run(ctx context.Context, selection []assets.Asset) (*Sequence, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("export pipeline requires a crop store")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := p.Store.Entries()
	if err != nil {
		return nil, fmt.Errorf("failed to read crop entries: %w", err)
	}
	if !p.SkipCrop && p.Sampler == nil {
		for _, entry := range entries {
			if entry.Asset.Type() == assets.MediaTypeImage {
				return nil, fmt.Errorf("export pipeline requires a sampler for image entries")
			}
		}
	}

	logging.Debug("export: starting run over %d entries (skip=%v)", len(entries), p.SkipCrop)
	return &Sequence{
		pipeline:  p,
		entries:   entries,
		selection: append([]assets.Asset(nil), selection...),
		ratio:     p.Store.Ratio(),
		started:   time.Now(),
	}, nil
}

type seqState int

const (
	seqInitial seqState = iota
	seqRunning
	seqDone
	seqFailed
)

// Sequence is one export run: a finite, non-restartable, pull-based
// snapshot source. Next is not safe for concurrent use; a sequence has
// exactly one consumer.
//
// A consumer that stops calling Next abandons the run: no further work
// happens, and working files of completed steps have already been
// removed, but the run is never resumed. Consume to completion unless
// tearing the whole operation down.
type Sequence struct {
	pipeline  *Pipeline
	entries   []crop.Entry
	selection []assets.Asset
	ratio     float64
	started   time.Time

	state   seqState
	idx     int
	records []Record
	err     error
}

// Next produces the next snapshot. It returns (nil, nil) once the
// sequence is exhausted, and (nil, err) after a fatal failure; a failed
// sequence keeps returning the same error.
func (q *Sequence) Next(ctx context.Context) (*Snapshot, error) {
	switch q.state {
	case seqFailed:
		return nil, q.err
	case seqDone:
		return nil, nil
	case seqInitial:
		q.state = seqRunning
		return q.snapshot(0.0), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, q.fail(err)
	}

	// Empty selection still completes: straight to the terminal snapshot.
	if len(q.entries) == 0 {
		return q.finish(), nil
	}

	entry := q.entries[q.idx]
	record, err := q.pipeline.process(ctx, entry)
	if err != nil {
		return nil, q.fail(err)
	}
	q.records = append(q.records, record)
	q.idx++

	if q.idx == len(q.entries) {
		return q.finish(), nil
	}

	// Intermediate progress is recomputed per emission, not accumulated,
	// so floating-point drift cannot push it to 1.0 early; only finish
	// emits exactly 1.0.
	progress := float64(q.idx) / float64(len(q.entries))
	logging.Debug("export: %d/%d done", q.idx, len(q.entries))
	return q.snapshot(progress), nil
}

// Collect drains the sequence and returns every snapshot it emitted.
func (q *Sequence) Collect(ctx context.Context) ([]Snapshot, error) {
	var all []Snapshot
	for {
		snap, err := q.Next(ctx)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return all, nil
		}
		all = append(all, *snap)
	}
}

func (q *Sequence) snapshot(progress float64) *Snapshot {
	return &Snapshot{
		Records:   append([]Record(nil), q.records...),
		Selection: q.selection,
		Ratio:     q.ratio,
		Progress:  progress,
	}
}

func (q *Sequence) finish() *Snapshot {
	q.state = seqDone
	metrics.ExportRunsTotal.WithLabelValues("success").Inc()
	metrics.ExportRunDuration.Observe(time.Since(q.started).Seconds())
	logging.Info("export: completed %d records in %s", len(q.records), time.Since(q.started).Round(time.Millisecond))
	return q.snapshot(1.0)
}

func (q *Sequence) fail(err error) error {
	q.state = seqFailed
	q.err = err
	metrics.ExportRunsTotal.WithLabelValues("error").Inc()
	logging.Error("export: aborted after %d records: %v", len(q.records), err)
	return err
}

// process handles one entry: pass-through, sample-only, or sample+crop.
func (p *Pipeline) process(ctx context.Context, entry crop.Entry) (Record, error) {
	record := Record{Entry: entry}

	if p.SkipCrop || entry.Asset.Type() != assets.MediaTypeImage {
		metrics.ExportAssetsTotal.WithLabelValues("passthrough").Inc()
		return record, nil
	}

	src, err := entry.Asset.Open(ctx)
	if err != nil {
		metrics.ExportFailuresTotal.WithLabelValues("fetch").Inc()
		return record, fmt.Errorf("failed to fetch original bytes for %s: %w", entry.Asset.ID(), err)
	}

	preferred := p.PreferredSize
	if preferred <= 0 {
		preferred = DefaultPreferredSize
	}
	dimension := TargetDimension(preferred, entry.Geometry.Scale)

	working, err := p.Sampler.Sample(ctx, src, dimension)
	closeErr := src.Close()
	if err != nil {
		metrics.ExportFailuresTotal.WithLabelValues("sample").Inc()
		return record, fmt.Errorf("failed to sample %s: %w", entry.Asset.ID(), err)
	}
	if closeErr != nil {
		logging.Warn("failed to close source for %s: %v", entry.Asset.ID(), closeErr)
	}

	// Never actively cropped: the working copy is the output.
	if entry.Geometry.Area == nil {
		record.OutputPath = working
		metrics.ExportAssetsTotal.WithLabelValues("sampled").Inc()
		return record, nil
	}

	output, err := p.Sampler.Crop(ctx, working, *entry.Geometry.Area)
	if err != nil {
		metrics.ExportFailuresTotal.WithLabelValues("crop").Inc()
		return record, fmt.Errorf("failed to crop %s: %w", entry.Asset.ID(), err)
	}

	// The working copy's lifetime ends with this step.
	if err := os.Remove(working); err != nil {
		logging.Warn("failed to remove working copy %s: %v", working, err)
	}

	record.OutputPath = output
	metrics.ExportAssetsTotal.WithLabelValues("cropped").Inc()
	return record, nil
}
