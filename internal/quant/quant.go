// Package quant supplies the quantization-field inputs consumed by the
// transform-selection cost estimator: per-channel chroma-mapping factors and
// the scalar quantization step derived from the encode's quality target.
//
// The quality target is a Butteraugli-style perceptual distance: smaller
// means higher quality and therefore a finer quantization step.
package quant

import "math"

// CmapFactors scales the entropy contribution of each analysis channel.
// The X (red-green) and B (blue-yellow) opponent channels carry less
// perceptually relevant detail than luma and are quantized more coarsely,
// so their coefficients cost proportionally less to code.
type CmapFactors [3]float32

// DefaultCmapFactors mirrors the relative channel weighting of the XYB
// color space: luma dominates, B is cheap, X is cheapest.
func DefaultCmapFactors() CmapFactors {
	return CmapFactors{0.25, 1.0, 0.6}
}

// Base step at distance 1.0. Calibrated so that an 8x8 block of unit-range
// luma noise quantizes to small but mostly non-zero coefficients.
const baseStep = 0.018

// StepForDistance maps the perceptual distance budget to a scalar
// quantization step. The mapping is linear in distance with a mild
// square-root easing below 1.0 so near-lossless targets do not collapse
// the step to zero.
func StepForDistance(distance float64) float32 {
	if distance < 0.1 {
		distance = 0.1
	}
	if distance < 1.0 {
		return float32(baseStep * math.Sqrt(distance))
	}
	return float32(baseStep * distance)
}
