// Package sampler implements the image sampling and cropping primitive
// the export pipeline sequences: given original bytes and a target
// maximum dimension, produce a down-sampled working file; given a
// working file and a normalized crop window, produce the cropped output
// file.
//
// Two implementations exist. ImagingSampler is the pure-Go default,
// built on disintegration/imaging. VipsSampler is an optional libvips
// fast path for hosts that have libvips installed; call InitVips before
// using it and ShutdownVips at exit.
//
// Both write their results as fresh files in a configured directory and
// never touch their inputs. Working-file lifetime is owned by the
// caller; the pipeline deletes a working copy once it has been cropped.
package sampler
