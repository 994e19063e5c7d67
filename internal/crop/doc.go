// Package crop implements the crop-parameter state machine behind the
// multi-asset picker: per-asset crop geometry, the aspect-ratio cycle,
// and the session controller that keeps the entry list in lockstep with
// the current selection.
//
// The controller rebuilds its entry list from scratch on every commit
// rather than patching it in place. The rebuild walks the selection
// order once, installing the freshly saved geometry for the asset being
// committed, carrying over existing geometry for assets already in the
// list, and defaulting everything else. That single pass is what keeps
// the invariant true after every mutation: exactly one entry per
// currently-selected asset, in selection order, with no stale entries
// for deselected assets.
//
// Two lifetime policies exist. An ephemeral controller owns its list and
// drops it on Close. A persistent controller writes through to an
// injected Slot that outlives it, so a controller constructed later for
// the same logical session observes the previous state. A Slot is a
// single shared mutable resource with a single-writer contract: only one
// controller should be committing to it at a time, enforced by the
// caller, not by this package.
package crop
