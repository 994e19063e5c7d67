package assets

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"media-picker/internal/logging"

	// Image format decoders for dimension probing
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp" // WebP format support
)

// FileAsset is an Asset backed by a file on disk. The asset ID is the
// file path, which is stable for the lifetime of a session.
//
// Image dimensions are probed lazily on first access via the decode
// config, without decoding pixel data. Video dimensions and duration are
// not probed; the export pipeline passes videos through untouched, so
// only the geometry an external processor derives from them matters.
type FileAsset struct {
	path      string
	mediaType MediaType

	probeOnce sync.Once
	width     int
	height    int
}

// NewFileAsset creates a FileAsset for path. The file must exist and
// carry a recognized media extension.
func NewFileAsset(path string) (*FileAsset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("asset not accessible: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("asset is a directory: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	mediaType := GetMediaType(ext)
	if mediaType == MediaTypeOther {
		return nil, fmt.Errorf("unsupported media extension %q: %s", ext, path)
	}

	return &FileAsset{path: path, mediaType: mediaType}, nil
}

// ID implements Asset. The ID is the file path.
func (f *FileAsset) ID() string { return f.path }

// Type implements Asset.
func (f *FileAsset) Type() MediaType { return f.mediaType }

// Path returns the backing file path.
func (f *FileAsset) Path() string { return f.path }

// Width implements Asset.
func (f *FileAsset) Width() int {
	f.probe()
	return f.width
}

// Height implements Asset.
func (f *FileAsset) Height() int {
	f.probe()
	return f.height
}

// Duration implements Asset. Always zero for file assets; see the type
// comment.
func (f *FileAsset) Duration() time.Duration { return 0 }

// Open implements Asset.
func (f *FileAsset) Open(_ context.Context) (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, f.path)
		}
		return nil, err
	}
	return file, nil
}

func (f *FileAsset) probe() {
	f.probeOnce.Do(func() {
		if f.mediaType != MediaTypeImage {
			return
		}
		w, h, err := probeImageDimensions(f.path)
		if err != nil {
			logging.Debug("Could not probe dimensions for %s: %v", f.path, err)
			return
		}
		f.width, f.height = w, h
	})
}

// probeImageDimensions returns image dimensions without decoding pixel data.
func probeImageDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}

// ScanDir returns a FileAsset for every supported media file directly
// under dir, sorted by name. It does not recurse; the picker grid is a
// flat view of one gallery folder.
func ScanDir(dir string) ([]Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset directory: %w", err)
	}

	var result []Asset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !IsMediaFile(ext) {
			continue
		}
		asset, err := NewFileAsset(filepath.Join(dir, entry.Name()))
		if err != nil {
			logging.Warn("Skipping %s: %v", entry.Name(), err)
			continue
		}
		result = append(result, asset)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	logging.Debug("Scanned %s: %d media assets", dir, len(result))
	return result, nil
}
