// Package store persists a crop session to SQLite so a persistent-mode
// picker can restore state across process restarts, not just across
// controller teardowns within one process.
//
// SessionStore implements crop.Slot. Entries written through it lose
// their live gallery handle: what survives is the asset descriptor
// (identity, media type, oriented dimensions, duration) plus the
// geometry. Restored entries therefore carry assets.Descriptor handles,
// whose byte accessor always fails; a caller that wants to export a
// restored session must re-resolve the IDs against a live gallery first.
//
// Like any Slot, a SessionStore expects a single active writer.
package store
