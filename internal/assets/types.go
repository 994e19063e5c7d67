package assets

import (
	"context"
	"errors"
	"io"
	"time"
)

// MediaType represents the kind of a media asset.
type MediaType string

const (
	// MediaTypeImage represents a still photo.
	MediaTypeImage MediaType = "image"
	// MediaTypeVideo represents a video clip.
	MediaTypeVideo MediaType = "video"
	// MediaTypeOther represents an unknown or unsupported asset.
	MediaTypeOther MediaType = "other"
)

// ErrUnavailable is returned by Open when an asset's original bytes
// cannot be retrieved. The export pipeline treats this as fatal.
var ErrUnavailable = errors.New("asset bytes unavailable")

// Asset is an opaque handle to a selectable media item.
//
// Identity is by ID: two Asset values with the same ID refer to the same
// item for the lifetime of a picker session. Width and Height are the
// oriented pixel dimensions (EXIF rotation already applied). Duration is
// zero for images.
type Asset interface {
	ID() string
	Type() MediaType
	Width() int
	Height() int
	Duration() time.Duration

	// Open returns a reader over the original bytes.
	// Returns ErrUnavailable (possibly wrapped) when the source is gone.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

// GetMediaType returns the MediaType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns MediaTypeOther if the extension is not recognized.
func GetMediaType(ext string) MediaType {
	if ImageExtensions[ext] {
		return MediaTypeImage
	}
	if VideoExtensions[ext] {
		return MediaTypeVideo
	}
	return MediaTypeOther
}

// IsMediaFile returns true if the extension represents a supported media file.
func IsMediaFile(ext string) bool {
	return GetMediaType(ext) != MediaTypeOther
}

// Descriptor is a detached asset record: identity and intrinsic
// properties without an attached byte source. It is what survives a trip
// through persistent session storage, where the original gallery handle
// is gone. Open always fails with ErrUnavailable; callers that need
// bytes must re-resolve the ID against a live gallery.
type Descriptor struct {
	AssetID    string        `json:"id"`
	MediaType  MediaType     `json:"type"`
	PixelW     int           `json:"width"`
	PixelH     int           `json:"height"`
	ClipLength time.Duration `json:"duration,omitempty"`
}

// ID implements Asset.
func (d Descriptor) ID() string { return d.AssetID }

// Type implements Asset.
func (d Descriptor) Type() MediaType { return d.MediaType }

// Width implements Asset.
func (d Descriptor) Width() int { return d.PixelW }

// Height implements Asset.
func (d Descriptor) Height() int { return d.PixelH }

// Duration implements Asset.
func (d Descriptor) Duration() time.Duration { return d.ClipLength }

// Open implements Asset. A Descriptor has no byte source.
func (d Descriptor) Open(_ context.Context) (io.ReadCloser, error) {
	return nil, ErrUnavailable
}

// Describe captures an Asset's intrinsic properties as a Descriptor.
func Describe(a Asset) Descriptor {
	return Descriptor{
		AssetID:    a.ID(),
		MediaType:  a.Type(),
		PixelW:     a.Width(),
		PixelH:     a.Height(),
		ClipLength: a.Duration(),
	}
}
