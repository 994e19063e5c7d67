package sampler

import (
	"context"
	"io"
	"os"

	"media-picker/internal/crop"
)

// Format identifies the encoding of produced files.
type Format string

const (
	// FormatJPEG encodes outputs as JPEG.
	FormatJPEG Format = "jpeg"
	// FormatPNG encodes outputs as PNG.
	FormatPNG Format = "png"
	// FormatWebP encodes outputs as WebP.
	FormatWebP Format = "webp"
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return ".jpg"
	}
}

// Sampler is the sampling/cropping primitive sequenced by the export
// pipeline. Each call is synchronous and independent; failures are
// reported to the caller, which treats them as fatal for the export.
type Sampler interface {
	// Sample decodes src and writes a working copy whose longer side is
	// at most maxDimension pixels, returning the working file path.
	Sample(ctx context.Context, src io.Reader, maxDimension int) (string, error)

	// Crop reads the working file and writes the portion selected by
	// the normalized area as a new file, returning its path. The
	// working file is left in place; the caller owns its lifetime.
	Crop(ctx context.Context, workingPath string, area crop.Rect) (string, error)
}

// Options configures a sampler implementation.
type Options struct {
	// Dir is where produced files are written. Defaults to the system
	// temp directory.
	Dir string
	// Format of produced files. Defaults to JPEG.
	Format Format
	// Quality for lossy formats, 1-100. Defaults to 85.
	Quality int
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = os.TempDir()
	}
	if o.Format == "" {
		o.Format = FormatJPEG
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 85
	}
	return o
}
