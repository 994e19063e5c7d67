// Package export turns a confirmed selection plus its crop session into
// output artifacts, reporting progress as it goes.
//
// A run is a lazy, consumer-pulled sequence of immutable Snapshot
// values: one at progress 0 before any work, one after each processed
// asset, and a final one at exactly progress 1.0 carrying the full
// record list. Entries are processed strictly in order, one at a time;
// there is no concurrency and no reordering, which keeps working-file
// lifetimes trivially scoped to the step that created them.
//
// Image entries are sampled to a scale-aware target dimension and, when
// a crop window was committed, cropped; the intermediate working copy is
// deleted once the crop exists. Videos and skip-crop runs produce
// pass-through records with no output file — the caller hands their
// derived filter strings (Record.CropFilter, Record.ScaleFilter) to an
// external video processor instead.
//
// A failure to fetch original bytes, sample, or crop is fatal for the
// whole run: the sequence terminates with that error and produces no
// further snapshots. A consumer may stop pulling early; completed steps
// have already cleaned up after themselves, but the run is simply
// abandoned mid-flight, so consuming to completion is the expected use.
package export
