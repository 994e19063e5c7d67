package crop

import (
	"fmt"

	"media-picker/internal/assets"
	"media-picker/internal/logging"
	"media-picker/internal/metrics"
)

// Controller owns the crop state for one picker session: the aspect
// ratio cycle, the entry list, and the currently previewed asset.
//
// Methods are not safe for concurrent use. The picker UI drives a
// controller from a single goroutine, and a persistent Slot expects a
// single active writer; see the package comment.
type Controller struct {
	ratios    *RatioSet
	slot      Slot // nil in ephemeral mode
	local     []Entry
	previewed assets.Asset
	observers []func(assets.Asset)
	closed    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPersistentSlot switches the controller to persistent mode: the
// entry list is written through to slot instead of controller-local
// state, and Close leaves the slot intact for the next controller.
func WithPersistentSlot(slot Slot) Option {
	return func(c *Controller) { c.slot = slot }
}

// NewController creates a controller over the given ratio set. The set
// is required; constructing a controller without one is a programming
// error.
func NewController(ratios *RatioSet, opts ...Option) *Controller {
	if ratios == nil {
		panic("crop: controller requires a ratio set")
	}
	c := &Controller{ratios: ratios}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Persistent reports whether the controller writes through to a slot.
func (c *Controller) Persistent() bool { return c.slot != nil }

// AdvanceRatio moves the aspect-ratio cursor to the next entry, wrapping
// after the last.
func (c *Controller) AdvanceRatio() {
	c.ratios.Advance()
}

// Ratio returns the current aspect ratio.
func (c *Controller) Ratio() float64 { return c.ratios.Current() }

// RatioLabel returns the display label for the current aspect ratio.
func (c *Controller) RatioLabel() string { return c.ratios.Label() }

// Entries returns the current entry list. The returned slice is a copy.
func (c *Controller) Entries() ([]Entry, error) {
	if c.slot != nil {
		return c.slot.Entries()
	}
	return append([]Entry(nil), c.local...), nil
}

// Lookup returns the committed geometry for an asset. The second return
// is false when the asset has no entry, which is the normal state for a
// never-edited asset, not an error.
func (c *Controller) Lookup(asset assets.Asset) (Geometry, bool) {
	entries, err := c.Entries()
	if err != nil {
		logging.Warn("crop: entry lookup failed: %v", err)
		return Geometry{}, false
	}
	for _, entry := range entries {
		if entry.Asset.ID() == asset.ID() {
			return entry.Geometry, true
		}
	}
	return Geometry{}, false
}

// Commit installs the freshly edited geometry for one asset and rebuilds
// the whole entry list against the current selection order.
//
// saved is the asset whose edit session just ended; nil means no pending
// edit, only the selection changed. raw is the geometry snapshot taken
// from the crop-view widget; nil means the saved asset has no committed
// geometry and gets defaults. selection is the full current selection in
// order.
//
// The list is rebuilt in a single pass rather than patched: every
// selected asset gets exactly one entry (fresh, carried over, or
// default) and entries for deselected assets simply do not survive the
// pass.
func (c *Controller) Commit(saved assets.Asset, raw *Geometry, selection []assets.Asset) error {
	existing, err := c.Entries()
	if err != nil {
		return fmt.Errorf("failed to read current entries: %w", err)
	}

	byID := make(map[string]Geometry, len(existing))
	for _, entry := range existing {
		byID[entry.Asset.ID()] = entry.Geometry
	}

	rebuilt := make([]Entry, 0, len(selection))
	for _, asset := range selection {
		entry := Entry{Asset: asset, Geometry: DefaultGeometry()}
		switch {
		case saved != nil && asset.ID() == saved.ID():
			if raw != nil {
				entry.Geometry = *raw
			}
		default:
			if geom, ok := byID[asset.ID()]; ok {
				entry.Geometry = geom
			}
		}
		rebuilt = append(rebuilt, entry)
	}

	if err := c.write(rebuilt); err != nil {
		return err
	}

	metrics.SessionCommitsTotal.Inc()
	metrics.SessionEntries.Set(float64(len(rebuilt)))
	logging.Debug("crop: committed %d entries (saved=%v)", len(rebuilt), saved != nil)
	return nil
}

// Clear empties the entry list and resets the previewed asset.
func (c *Controller) Clear() error {
	if err := c.write(nil); err != nil {
		return err
	}
	c.previewed = nil
	metrics.SessionEntries.Set(0)
	return nil
}

// SetPreviewed records which asset the crop viewer is showing and
// notifies observers synchronously. nil clears the preview.
func (c *Controller) SetPreviewed(asset assets.Asset) {
	c.previewed = asset
	for _, notify := range c.observers {
		notify(asset)
	}
}

// Previewed returns the asset the crop viewer is showing, or nil.
func (c *Controller) Previewed() assets.Asset { return c.previewed }

// OnPreviewChange registers a callback invoked synchronously from
// SetPreviewed. Registrations cannot be removed individually; Close
// drops them all.
func (c *Controller) OnPreviewChange(fn func(assets.Asset)) {
	c.observers = append(c.observers, fn)
}

// Close releases the controller. In ephemeral mode the entry list is
// cleared; in persistent mode the slot is deliberately left intact so a
// future controller for the same session can restore from it.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.observers = nil
	c.previewed = nil
	if c.slot == nil {
		c.local = nil
	}
	return nil
}

func (c *Controller) write(entries []Entry) error {
	if c.slot != nil {
		if err := c.slot.Replace(entries); err != nil {
			return fmt.Errorf("failed to write persistent slot: %w", err)
		}
		return nil
	}
	c.local = entries
	return nil
}
