package acs

import (
	"sync"

	"github.com/deepteams/jxl/internal/dct"
)

// maxCoeffArea is the coefficient area of the largest candidate (64x64).
const maxCoeffArea = dct.MaxDim * dct.MaxDim

// Scratch holds the per-worker working memory of one selection pass. Sizes
// are statically bounded by the largest candidate and the 8x8 analysis cell,
// so everything is a fixed array: no per-call heap allocation in the hot
// path. A Scratch is owned by exactly one worker at a time and never shared.
type Scratch struct {
	// Pixel and coefficient arenas for the cost estimator.
	pix  [maxCoeffArea]float32
	coef [maxCoeffArea]float32
	qc   [maxCoeffArea]int32

	// Filtered-Laplacian field of one analysis sub-rectangle.
	lap [BlockDim * BlockDim]float32
}

var scratchPool = sync.Pool{
	New: func() any { return new(Scratch) },
}

func getScratch() *Scratch  { return scratchPool.Get().(*Scratch) }
func putScratch(s *Scratch) { scratchPool.Put(s) }
