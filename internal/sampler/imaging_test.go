package sampler

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"

	"media-picker/internal/crop"
)

// encodeTestImage returns an in-memory JPEG of the given size.
func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 64,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func decodeDimensions(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	config, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return config.Width, config.Height
}

func newTestSampler(t *testing.T) *ImagingSampler {
	t.Helper()
	s, err := NewImagingSampler(Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSampleDownscales(t *testing.T) {
	s := newTestSampler(t)
	src := encodeTestImage(t, 400, 200)

	path, err := s.Sample(context.Background(), bytes.NewReader(src), 100)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	w, h := decodeDimensions(t, path)
	if w > 100 || h > 100 {
		t.Errorf("sampled dimensions %dx%d exceed max 100", w, h)
	}
	// Aspect ratio preserved: 2:1 source.
	if w != 100 || h != 50 {
		t.Errorf("sampled dimensions = %dx%d, want 100x50", w, h)
	}
}

func TestSampleKeepsSmallImages(t *testing.T) {
	s := newTestSampler(t)
	src := encodeTestImage(t, 60, 40)

	path, err := s.Sample(context.Background(), bytes.NewReader(src), 100)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	w, h := decodeDimensions(t, path)
	if w != 60 || h != 40 {
		t.Errorf("sampled dimensions = %dx%d, want unchanged 60x40", w, h)
	}
}

func TestSampleRejectsGarbage(t *testing.T) {
	s := newTestSampler(t)
	if _, err := s.Sample(context.Background(), bytes.NewReader([]byte("not an image")), 100); err == nil {
		t.Error("expected decode error")
	}
}

func TestCrop(t *testing.T) {
	s := newTestSampler(t)
	src := encodeTestImage(t, 200, 100)

	working, err := s.Sample(context.Background(), bytes.NewReader(src), 1000)
	if err != nil {
		t.Fatal(err)
	}

	out, err := s.Crop(context.Background(), working, crop.Rect{Left: 0.25, Top: 0.0, Width: 0.5, Height: 1.0})
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}

	w, h := decodeDimensions(t, out)
	if w != 100 || h != 100 {
		t.Errorf("cropped dimensions = %dx%d, want 100x100", w, h)
	}

	// The working copy must still exist; its lifetime belongs to the caller.
	if _, err := os.Stat(working); err != nil {
		t.Errorf("working copy removed by Crop(): %v", err)
	}
}

func TestCropEmptyArea(t *testing.T) {
	s := newTestSampler(t)
	src := encodeTestImage(t, 50, 50)

	working, err := s.Sample(context.Background(), bytes.NewReader(src), 1000)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Crop(context.Background(), working, crop.Rect{Left: 1.0, Top: 1.0, Width: 0.5, Height: 0.5}); err == nil {
		t.Error("expected error for out-of-bounds crop area")
	}
}

func TestSampleCancelledContext(t *testing.T) {
	s := newTestSampler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Sample(ctx, bytes.NewReader(encodeTestImage(t, 10, 10)), 100); err == nil {
		t.Error("expected context error")
	}
}
