// Package assets defines the media asset handle consumed by the crop
// session and export pipeline.
//
// An Asset is an opaque handle to a device-resident photo or video: a
// stable identity, a media type, oriented pixel dimensions, a duration
// for videos, and an accessor for the original bytes. The gallery layer
// that produces assets (grid traversal, permissions, thumbnails) lives
// outside this module; FileAsset and ScanDir provide a filesystem-backed
// implementation for the CLI and for tests.
package assets
