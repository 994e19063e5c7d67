package sampler

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"time"

	"media-picker/internal/crop"
	"media-picker/internal/logging"
	"media-picker/internal/metrics"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Image format decoders
	_ "image/gif"

	_ "golang.org/x/image/webp" // WebP decode support
)

// ImagingSampler is the pure-Go Sampler built on disintegration/imaging.
// It is safe for concurrent use, though the export pipeline only ever
// calls it sequentially.
type ImagingSampler struct {
	opts Options
}

// NewImagingSampler creates an ImagingSampler. The output directory is
// created if missing.
func NewImagingSampler(opts Options) (*ImagingSampler, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sampler output dir: %w", err)
	}
	return &ImagingSampler{opts: opts}, nil
}

// Sample implements Sampler. EXIF orientation is applied during decode,
// so the working copy's dimensions are the oriented ones. Images already
// within maxDimension are re-encoded without resizing.
func (s *ImagingSampler) Sample(ctx context.Context, src io.Reader, maxDimension int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if maxDimension < 1 {
		return "", fmt.Errorf("invalid target dimension %d", maxDimension)
	}

	start := time.Now()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode source image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		img = imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	}

	path, err := s.write(img, "sample-*")
	if err != nil {
		return "", err
	}

	metrics.SamplerOperationDuration.WithLabelValues("sample").Observe(time.Since(start).Seconds())
	logging.Debug("sampled %dx%d -> %dx%d (%s)",
		bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy(), path)
	return path, nil
}

// Crop implements Sampler. The normalized area is mapped onto the
// working copy's pixel grid and clamped to its bounds.
func (s *ImagingSampler) Crop(ctx context.Context, workingPath string, area crop.Rect) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	img, err := imaging.Open(workingPath)
	if err != nil {
		return "", fmt.Errorf("failed to open working copy: %w", err)
	}

	rect := pixelRect(area, img.Bounds())
	if rect.Empty() {
		return "", fmt.Errorf("crop area %+v maps to an empty region of %v", area, img.Bounds())
	}

	cropped := imaging.Crop(img, rect)
	path, err := s.write(cropped, "crop-*")
	if err != nil {
		return "", err
	}

	metrics.SamplerOperationDuration.WithLabelValues("crop").Observe(time.Since(start).Seconds())
	logging.Debug("cropped %s to %v (%s)", workingPath, rect, path)
	return path, nil
}

func (s *ImagingSampler) write(img image.Image, pattern string) (string, error) {
	file, err := os.CreateTemp(s.opts.Dir, pattern+s.opts.Format.Ext())
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	var encErr error
	switch s.opts.Format {
	case FormatPNG:
		encErr = png.Encode(file, img)
	case FormatWebP:
		encErr = webp.Encode(file, img, &webp.Options{Quality: float32(s.opts.Quality)})
	default:
		encErr = jpeg.Encode(file, img, &jpeg.Options{Quality: s.opts.Quality})
	}

	closeErr := file.Close()
	if encErr != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to encode output: %w", encErr)
	}
	if closeErr != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to close output file: %w", closeErr)
	}
	return file.Name(), nil
}

// pixelRect maps a normalized crop window onto pixel bounds, clamping
// so the result never exceeds the image.
func pixelRect(area crop.Rect, bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	x0 := bounds.Min.X + int(math.Round(area.Left*w))
	y0 := bounds.Min.Y + int(math.Round(area.Top*h))
	x1 := x0 + int(math.Round(area.Width*w))
	y1 := y0 + int(math.Round(area.Height*h))

	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}
