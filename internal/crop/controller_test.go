package crop

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"media-picker/internal/assets"
)

// fakeAsset is a minimal in-memory Asset for state-machine tests.
type fakeAsset struct {
	id        string
	mediaType assets.MediaType
}

func (f fakeAsset) ID() string               { return f.id }
func (f fakeAsset) Type() assets.MediaType   { return f.mediaType }
func (f fakeAsset) Width() int               { return 1000 }
func (f fakeAsset) Height() int              { return 2000 }
func (f fakeAsset) Duration() time.Duration  { return 0 }
func (f fakeAsset) Open(_ context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("bytes")), nil
}

func image(id string) fakeAsset {
	return fakeAsset{id: id, mediaType: assets.MediaTypeImage}
}

func mustRatios(t *testing.T) *RatioSet {
	t.Helper()
	set, err := NewRatioSet(1.0, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func entryIDs(t *testing.T, c *Controller) []string {
	t.Helper()
	entries, err := c.Entries()
	if err != nil {
		t.Fatalf("Entries() error = %v", err)
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Asset.ID()
	}
	return ids
}

func TestCommitRebuildInvariant(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	a, b, d := image("a"), image("b"), image("d")

	// Initial selection of three assets, no pending edit.
	if err := c.Commit(nil, nil, []assets.Asset{a, b, d}); err != nil {
		t.Fatal(err)
	}
	got := entryIDs(t, c)
	want := []string{"a", "b", "d"}
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}

	// Commit geometry for b, reorder the selection, and drop a.
	area := &Rect{Left: 0.1, Top: 0.2, Width: 0.5, Height: 0.3}
	if err := c.Commit(b, &Geometry{Scale: 2.0, Area: area}, []assets.Asset{d, b}); err != nil {
		t.Fatal(err)
	}

	got = entryIDs(t, c)
	if len(got) != 2 || got[0] != "d" || got[1] != "b" {
		t.Fatalf("entries = %v, want [d b]", got)
	}

	// No orphan for the deselected asset.
	if _, ok := c.Lookup(a); ok {
		t.Error("deselected asset still has an entry")
	}

	// Fresh geometry installed for the saved asset.
	geom, ok := c.Lookup(b)
	if !ok {
		t.Fatal("no entry for saved asset")
	}
	if geom.Scale != 2.0 || geom.Area == nil || geom.Area.Width != 0.5 {
		t.Errorf("saved geometry = %+v", geom)
	}

	// Untouched asset keeps defaults.
	geom, ok = c.Lookup(d)
	if !ok {
		t.Fatal("no entry for carried-over asset")
	}
	if geom.Scale != 1.0 || geom.Area != nil {
		t.Errorf("carried-over geometry = %+v, want defaults", geom)
	}
}

func TestCommitCarriesOverAcrossRebuilds(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	a, b := image("a"), image("b")
	area := &Rect{Width: 1, Height: 1}

	if err := c.Commit(a, &Geometry{Scale: 1.5, Area: area}, []assets.Asset{a, b}); err != nil {
		t.Fatal(err)
	}
	// A later selection-only commit must not lose a's geometry.
	if err := c.Commit(nil, nil, []assets.Asset{b, a}); err != nil {
		t.Fatal(err)
	}

	geom, ok := c.Lookup(a)
	if !ok || geom.Scale != 1.5 {
		t.Errorf("geometry after rebuild = %+v, ok=%v, want scale 1.5", geom, ok)
	}
}

func TestCommitNilRawInstallsDefaults(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	a := image("a")
	area := &Rect{Width: 0.5, Height: 0.5}
	if err := c.Commit(a, &Geometry{Scale: 3.0, Area: area}, []assets.Asset{a}); err != nil {
		t.Fatal(err)
	}
	// Saving the same asset again with a nil snapshot resets it.
	if err := c.Commit(a, nil, []assets.Asset{a}); err != nil {
		t.Fatal(err)
	}

	geom, ok := c.Lookup(a)
	if !ok {
		t.Fatal("no entry for asset")
	}
	if geom.Scale != 1.0 || geom.Area != nil {
		t.Errorf("geometry = %+v, want defaults", geom)
	}
}

func TestLookupAbsent(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	if _, ok := c.Lookup(image("never-selected")); ok {
		t.Error("Lookup() found entry in empty controller")
	}
}

func TestClear(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	a := image("a")
	if err := c.Commit(nil, nil, []assets.Asset{a}); err != nil {
		t.Fatal(err)
	}
	c.SetPreviewed(a)

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if ids := entryIDs(t, c); len(ids) != 0 {
		t.Errorf("entries after Clear() = %v", ids)
	}
	if c.Previewed() != nil {
		t.Error("previewed asset survived Clear()")
	}
}

func TestPreviewObservers(t *testing.T) {
	c := NewController(mustRatios(t))
	defer c.Close()

	var seen []string
	c.OnPreviewChange(func(a assets.Asset) {
		if a == nil {
			seen = append(seen, "<nil>")
			return
		}
		seen = append(seen, a.ID())
	})

	c.SetPreviewed(image("a"))
	c.SetPreviewed(image("b"))
	c.SetPreviewed(nil)

	if len(seen) != 3 || seen[0] != "a" || seen[1] != "b" || seen[2] != "<nil>" {
		t.Errorf("observer saw %v", seen)
	}
}

func TestEphemeralIsolation(t *testing.T) {
	c1 := NewController(mustRatios(t))
	c2 := NewController(mustRatios(t))
	defer c1.Close()
	defer c2.Close()

	if err := c1.Commit(nil, nil, []assets.Asset{image("a")}); err != nil {
		t.Fatal(err)
	}

	if ids := entryIDs(t, c2); len(ids) != 0 {
		t.Errorf("second ephemeral controller observes %v", ids)
	}
}

func TestEphemeralCloseClears(t *testing.T) {
	c := NewController(mustRatios(t))
	if err := c.Commit(nil, nil, []assets.Asset{image("a")}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if ids := entryIDs(t, c); len(ids) != 0 {
		t.Errorf("entries after Close() = %v", ids)
	}
}

func TestPersistentSurvivesClose(t *testing.T) {
	slot := NewMemorySlot()

	c1 := NewController(mustRatios(t), WithPersistentSlot(slot))
	area := &Rect{Left: 0.25, Top: 0.25, Width: 0.5, Height: 0.5}
	if err := c1.Commit(image("a"), &Geometry{Scale: 2.0, Area: area}, []assets.Asset{image("a")}); err != nil {
		t.Fatal(err)
	}
	if err := c1.Close(); err != nil {
		t.Fatal(err)
	}

	// A new controller over the same slot observes the committed state.
	c2 := NewController(mustRatios(t), WithPersistentSlot(slot))
	defer c2.Close()

	geom, ok := c2.Lookup(image("a"))
	if !ok {
		t.Fatal("persistent entry lost across controller disposal")
	}
	if geom.Scale != 2.0 || geom.Area == nil || geom.Area.Left != 0.25 {
		t.Errorf("restored geometry = %+v", geom)
	}
}

func TestPersistentClearEmptiesSlot(t *testing.T) {
	slot := NewMemorySlot()
	c := NewController(mustRatios(t), WithPersistentSlot(slot))
	defer c.Close()

	if err := c.Commit(nil, nil, []assets.Asset{image("a")}); err != nil {
		t.Fatal(err)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}

	entries, err := slot.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("slot holds %d entries after Clear()", len(entries))
	}
}
