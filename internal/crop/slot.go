package crop

import "sync"

// Slot is the write-through target a persistent controller stores its
// entry list in. A Slot outlives any one controller; the surrounding
// application owns exactly one active slot per logical session and
// guarantees only one controller commits to it at a time.
//
// Replace installs a full entry list, discarding whatever was there.
// The list is always replaced wholesale, never patched, matching the
// controller's rebuild-on-commit model.
type Slot interface {
	Replace(entries []Entry) error
	Entries() ([]Entry, error)
	Clear() error
}

// MemorySlot is the in-process Slot: a single mutable cell guarded by a
// mutex. It holds entries for as long as the process lives, which is
// what lets a persistent session survive a picker teardown and rebuild.
type MemorySlot struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemorySlot returns an empty in-process slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Replace implements Slot. The stored list is a copy; the caller's
// slice is not retained.
func (s *MemorySlot) Replace(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry(nil), entries...)
	return nil
}

// Entries implements Slot. The returned slice is a copy.
func (s *MemorySlot) Entries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...), nil
}

// Clear implements Slot.
func (s *MemorySlot) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
