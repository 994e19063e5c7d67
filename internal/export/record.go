package export

import (
	"fmt"
	"strconv"

	"media-picker/internal/assets"
	"media-picker/internal/crop"
)

// Record is the export outcome for one selected asset. OutputPath is
// empty for pass-through records: videos, skip-crop runs.
type Record struct {
	Entry      crop.Entry
	OutputPath string
}

// Asset returns the record's asset handle.
func (r Record) Asset() assets.Asset { return r.Entry.Asset }

// HasOutput reports whether the record carries a produced file.
func (r Record) HasOutput() bool { return r.OutputPath != "" }

// CropFilter derives the ffmpeg crop filter argument for this record's
// geometry: "w:h:x:y" with each component being the normalized area
// scaled by the asset's oriented pixel dimensions. The second return is
// false when no crop window was ever committed.
//
// Components are emitted in shortest round-trip decimal form, without
// truncation.
func (r Record) CropFilter() (string, bool) {
	area := r.Entry.Geometry.Area
	if area == nil {
		return "", false
	}

	w := float64(r.Entry.Asset.Width())
	h := float64(r.Entry.Asset.Height())
	return fmt.Sprintf("%s:%s:%s:%s",
		formatComponent(area.Width*w),
		formatComponent(area.Height*h),
		formatComponent(area.Left*w),
		formatComponent(area.Top*h),
	), true
}

// ScaleFilter derives the ffmpeg scale filter argument
// "iw*<scale>:ih*<scale>" from the crop widget's internal scale
// sub-field. The second return is false when the widget never reported
// a scale for this asset.
func (r Record) ScaleFilter() (string, bool) {
	internal := r.Entry.Geometry.Internal
	if internal == nil || internal.Scale == nil {
		return "", false
	}
	s := formatComponent(*internal.Scale)
	return fmt.Sprintf("iw*%s:ih*%s", s, s), true
}

func formatComponent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Snapshot is one progress emission of an export run. Each emission is
// a fresh value: Records is cloned per snapshot, so consumers may hold
// onto any snapshot without later emissions mutating it.
type Snapshot struct {
	// Records produced so far, in selection order.
	Records []Record
	// Selection is the full asset selection the run was started with.
	Selection []assets.Asset
	// Ratio is the aspect ratio current at the time of the run.
	Ratio float64
	// Progress in [0.0, 1.0]. Exactly 1.0 only on the terminal snapshot.
	Progress float64
}
