// Package acs implements adaptive transform-size selection ("AC strategy")
// for a block-based lossy image encoder. For every 8x8 coding unit of a
// three-channel perceptual-color image, the engine commits exactly one
// transform shape out of a closed candidate set, chosen by a cost search
// that blends an entropy approximation over quantized coefficients, an
// information-loss penalty, and a structure analysis of the local content.
//
// The selected partition grid and the per-region cost totals are consumed
// by the downstream entropy-coding stage, which is not part of this package.
package acs

// BlockDim is the edge of one coding unit, in pixels. The partition grid
// tracks one entry per BlockDim x BlockDim cell.
const BlockDim = 8

// Strategy identifies one selectable transform shape.
type Strategy uint8

// The candidate set. The 4x4/4x8/8x4 variants tile a single coding unit
// with smaller sub-transforms; all others are one transform covering their
// whole footprint.
const (
	DCT4X4 Strategy = iota
	DCT4X8
	DCT8X4
	DCT8X8
	DCT16X8
	DCT8X16
	DCT16X16
	DCT32X16
	DCT16X32
	DCT32X32
	DCT64X32
	DCT32X64
	DCT64X64

	numStrategies
)

// strategyInfo describes the static attributes of one candidate.
type strategyInfo struct {
	name string

	// Footprint in coding units.
	covW, covH int

	// Size of each transform inside the footprint, in pixels. Footprints
	// larger than the transform are tiled (the 4x4 family only).
	txW, txH int

	// EntropyMul scales the estimated cost: values above 1 penalize
	// shapes that fragment the image into many small transforms, values
	// below 1 reward large transforms that amortize signaling overhead.
	entropyMul float64

	// Merge-pass tie break. A merge supersedes committed entries only if
	// its priority exceeds all of theirs.
	priority uint8
}

var strategyInfos = [numStrategies]strategyInfo{
	DCT4X4:   {"DCT4X4", 1, 1, 4, 4, 1.30, 0},
	DCT4X8:   {"DCT4X8", 1, 1, 4, 8, 1.12, 0},
	DCT8X4:   {"DCT8X4", 1, 1, 8, 4, 1.12, 0},
	DCT8X8:   {"DCT8X8", 1, 1, 8, 8, 1.00, 0},
	DCT16X8:  {"DCT16X8", 2, 1, 16, 8, 0.86, 1},
	DCT8X16:  {"DCT8X16", 1, 2, 8, 16, 0.86, 1},
	DCT16X16: {"DCT16X16", 2, 2, 16, 16, 0.83, 1},
	DCT32X16: {"DCT32X16", 4, 2, 32, 16, 0.81, 2},
	DCT16X32: {"DCT16X32", 2, 4, 16, 32, 0.81, 2},
	DCT32X32: {"DCT32X32", 4, 4, 32, 32, 0.79, 2},
	DCT64X32: {"DCT64X32", 8, 4, 64, 32, 0.78, 3},
	DCT32X64: {"DCT32X64", 4, 8, 32, 64, 0.78, 3},
	DCT64X64: {"DCT64X64", 8, 8, 64, 64, 0.77, 3},
}

// String returns the candidate name.
func (s Strategy) String() string { return strategyInfos[s].name }

// CoverageBlocks returns the footprint in coding units.
func (s Strategy) CoverageBlocks() (w, h int) {
	return strategyInfos[s].covW, strategyInfos[s].covH
}

// TransformSize returns the size of each transform in the footprint, in
// pixels.
func (s Strategy) TransformSize() (w, h int) {
	return strategyInfos[s].txW, strategyInfos[s].txH
}

// EntropyMul returns the cost-scaling weight of the candidate.
func (s Strategy) EntropyMul() float64 { return strategyInfos[s].entropyMul }

// Priority returns the merge-pass priority tag.
func (s Strategy) Priority() uint8 { return strategyInfos[s].priority }

// Scale steps of the search hierarchy, in coding units. At scale J the
// square candidate covers JxJ units and the rect candidates Jx(J/2) and
// (J/2)xJ.
var scaleSquare = map[int]Strategy{1: DCT8X8, 2: DCT16X16, 4: DCT32X32, 8: DCT64X64}
var scaleWide = map[int]Strategy{2: DCT16X8, 4: DCT32X16, 8: DCT64X32}
var scaleTall = map[int]Strategy{2: DCT8X16, 4: DCT16X32, 8: DCT32X64}
