package startup

import (
	"math"
	"testing"
)

func TestParseRatiosDefaults(t *testing.T) {
	ratios, err := ParseRatios("")
	if err != nil {
		t.Fatalf("ParseRatios(\"\") error = %v", err)
	}
	if len(ratios) != len(DefaultRatios) {
		t.Errorf("got %d default ratios, want %d", len(ratios), len(DefaultRatios))
	}
}

func TestParseRatiosFloats(t *testing.T) {
	ratios, err := ParseRatios("1.0, 0.8,1.91")
	if err != nil {
		t.Fatalf("ParseRatios() error = %v", err)
	}
	want := []float64{1.0, 0.8, 1.91}
	if len(ratios) != len(want) {
		t.Fatalf("got %d ratios, want %d", len(ratios), len(want))
	}
	for i := range want {
		if ratios[i] != want[i] {
			t.Errorf("ratio[%d] = %v, want %v", i, ratios[i], want[i])
		}
	}
}

func TestParseRatiosFractions(t *testing.T) {
	ratios, err := ParseRatios("4:5, 16:9")
	if err != nil {
		t.Fatalf("ParseRatios() error = %v", err)
	}
	if math.Abs(ratios[0]-0.8) > 1e-12 {
		t.Errorf("ratio[0] = %v, want 0.8", ratios[0])
	}
	if math.Abs(ratios[1]-16.0/9.0) > 1e-12 {
		t.Errorf("ratio[1] = %v, want 16/9", ratios[1])
	}
}

func TestParseRatiosErrors(t *testing.T) {
	for _, input := range []string{"abc", "1.0,xyz", "4:0", "4:"} {
		if _, err := ParseRatios(input); err == nil {
			t.Errorf("ParseRatios(%q) succeeded, want error", input)
		}
	}
}
