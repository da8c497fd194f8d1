// Package jxl provides the adaptive transform-size selection engine of a
// pure Go JPEG XL-style lossy image encoder.
//
// For every region of a source image the engine decides which block
// transform shape (square or rectangular, 4x4 up to 64x64 pixels) best
// represents that region's content, trading estimated coded size against
// reconstruction fidelity. The decision combines an entropy approximation
// over quantized transform coefficients, an information-loss penalty, and a
// structure analysis of the local image content (edge density, focus,
// colorfulness).
//
// The package operates on three-channel perceptual-color images (see the
// image3 subpackage) and produces a partition grid assigning exactly one
// transform to every 8x8 coding unit. Entropy coding of the selected
// coefficients is a separate, downstream concern and is not part of this
// package.
//
// Basic usage:
//
//	grid, cost, err := jxl.SelectTransforms(ctx, img, jxl.DefaultOptions(1.0))
package jxl
