package crop

import "testing"

func TestNewRatioSetValidation(t *testing.T) {
	if _, err := NewRatioSet(); err == nil {
		t.Error("expected error for empty ratio set")
	}
	if _, err := NewRatioSet(1.0, 0); err == nil {
		t.Error("expected error for zero ratio")
	}
	if _, err := NewRatioSet(-0.5); err == nil {
		t.Error("expected error for negative ratio")
	}
	if _, err := NewRatioSet(1.0, 0.8, 16.0/9.0); err != nil {
		t.Errorf("unexpected error for valid set: %v", err)
	}
}

func TestAdvanceWraps(t *testing.T) {
	set, err := NewRatioSet(1.0, 0.8, 4.0/3.0)
	if err != nil {
		t.Fatal(err)
	}

	// Advancing len times returns to the start.
	start := set.Index()
	for i := 0; i < set.Len(); i++ {
		set.Advance()
	}
	if set.Index() != start {
		t.Errorf("cursor = %d after %d advances, want %d", set.Index(), set.Len(), start)
	}

	// Advancing once from the last index wraps to 0.
	for set.Index() != set.Len()-1 {
		set.Advance()
	}
	set.Advance()
	if set.Index() != 0 {
		t.Errorf("cursor = %d after wrap, want 0", set.Index())
	}
}

func TestCurrentFollowsCursor(t *testing.T) {
	set, err := NewRatioSet(1.0, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if set.Current() != 1.0 {
		t.Errorf("Current() = %v, want 1.0", set.Current())
	}
	set.Advance()
	if set.Current() != 0.8 {
		t.Errorf("Current() = %v, want 0.8", set.Current())
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{1.0, "1:1"},
		{0.8, "4:5"},
		{4.0 / 5.0, "4:5"},
		{3.0 / 4.0, "3:4"},
		{16.0 / 9.0, "16:9"},
		{9.0 / 16.0, "9:16"},
		{2.0, "2:1"},
		{0.5, "1:2"},
	}

	for _, tt := range tests {
		if got := FormatRatio(tt.ratio); got != tt.want {
			t.Errorf("FormatRatio(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	set, err := NewRatioSet(1.0, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if set.Label() != "1:1" {
		t.Errorf("Label() = %q, want 1:1", set.Label())
	}
	set.Advance()
	if set.Label() != "4:5" {
		t.Errorf("Label() = %q, want 4:5", set.Label())
	}
}
