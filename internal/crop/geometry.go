package crop

import "media-picker/internal/assets"

// Rect is a crop window in unit coordinates, relative to the oriented
// asset dimensions: all four components are in [0, 1].
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ViewState is the raw snapshot handed over by the interactive crop-view
// widget when the user finishes editing. It is carried through verbatim;
// the only field this module reads is Scale, for the derived scale
// filter string.
type ViewState struct {
	Scale *float64       `json:"scale,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Geometry is the committed crop state for one asset.
//
// Scale is the zoom factor applied during interactive cropping, 1.0
// meaning no zoom. Area is nil until the asset has been actively
// previewed and a crop window committed; a nil Area asks the export
// pipeline for a sampled-but-uncropped output. Internal is nil when the
// widget never produced a snapshot for this asset.
type Geometry struct {
	Scale    float64    `json:"scale"`
	Area     *Rect      `json:"area,omitempty"`
	Internal *ViewState `json:"internal,omitempty"`
}

// DefaultGeometry is the state installed for an asset that joins the
// selection without ever having been edited.
func DefaultGeometry() Geometry {
	return Geometry{Scale: 1.0}
}

// Entry pairs an asset with its committed geometry. A controller holds
// at most one Entry per asset ID.
type Entry struct {
	Asset    assets.Asset
	Geometry Geometry
}
