package crop

import (
	"fmt"
	"math"
)

// maxRatioDenominator bounds the fraction search when rendering a ratio
// label. Every ratio a picker realistically offers (1:1, 4:5, 3:4,
// 16:9, ...) reduces well below this.
const maxRatioDenominator = 1000

// RatioSet is a non-empty ordered sequence of allowed aspect ratios
// (width/height) with a cursor that wraps on advance.
//
// RatioSet is not safe for concurrent use; the controller serializes
// access to it.
type RatioSet struct {
	ratios []float64
	cursor int
}

// NewRatioSet creates a RatioSet. At least one ratio is required and
// every ratio must be positive; violating either is a construction
// error, and the accessors below assume a valid set thereafter.
func NewRatioSet(ratios ...float64) (*RatioSet, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("ratio set must not be empty")
	}
	for i, r := range ratios {
		if r <= 0 || math.IsInf(r, 0) || math.IsNaN(r) {
			return nil, fmt.Errorf("ratio %d is not a positive finite number: %v", i, r)
		}
	}
	return &RatioSet{ratios: append([]float64(nil), ratios...)}, nil
}

// Len returns the number of ratios in the set.
func (s *RatioSet) Len() int { return len(s.ratios) }

// Index returns the current cursor position.
func (s *RatioSet) Index() int { return s.cursor }

// Current returns the ratio under the cursor.
func (s *RatioSet) Current() float64 { return s.ratios[s.cursor] }

// Advance moves the cursor to the next ratio, wrapping to the first
// after the last. It has no failure mode.
func (s *RatioSet) Advance() {
	s.cursor = (s.cursor + 1) % len(s.ratios)
}

// Label returns the display label for the current ratio: "1:1" for
// ratio 1.0, otherwise the ratio as a reduced integer fraction joined
// by a colon (0.8 renders as "4:5").
func (s *RatioSet) Label() string {
	return FormatRatio(s.Current())
}

// FormatRatio renders a positive aspect ratio as a reduced integer
// fraction, e.g. 0.8 -> "4:5", 16.0/9.0 -> "16:9".
func FormatRatio(ratio float64) string {
	const eps = 1e-6

	for den := 1; den <= maxRatioDenominator; den++ {
		scaled := ratio * float64(den)
		num := math.Round(scaled)
		if num >= 1 && math.Abs(scaled-num) < eps*float64(den) {
			return fmt.Sprintf("%d:%d", int(num), den)
		}
	}

	// No small exact fraction; fall back to a reduced approximation.
	num := int(math.Round(ratio * maxRatioDenominator))
	den := maxRatioDenominator
	g := gcd(num, den)
	return fmt.Sprintf("%d:%d", num/g, den/g)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
