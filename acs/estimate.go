package acs

import (
	"fmt"
	"math/bits"

	"github.com/deepteams/jxl/internal/dct"
)

const (
	// Per-transform signaling overhead (strategy id, DC handling), in the
	// same approximate-bit units as coeffBits. Many small transforms pay
	// this many times over; one large transform pays it once.
	blockOverheadBits = 6.0

	// Weight of the information-loss penalty relative to the entropy
	// approximation. Loss is normalized by the quantization step so the
	// two terms stay on comparable scales across quality targets.
	infoLossMul = 0.8

	// Scaling of the structure-coupling multiplier applied to candidates
	// inside a single analysis cell.
	structureCouplingMul = 0.8
)

// coeffBits is the entropy approximation over one quantized block: roughly
// one sign bit plus the magnitude bit length per non-zero coefficient.
func coeffBits(q []int32) float64 {
	var b float64
	for _, v := range q {
		if v == 0 {
			continue
		}
		if v < 0 {
			v = -v
		}
		b += 1 + float64(bits.Len32(uint32(v)))
	}
	return b
}

// estimateCost returns the scalar cost proxy for placing strategy st with
// its anchor at coding unit (bx, by). The candidate footprint must lie
// inside the valid image extent; a footprint that does not fit is a caller
// defect, not a runtime condition.
func (s *searcher) estimateCost(st Strategy, bx, by int) float64 {
	covW, covH := st.CoverageBlocks()
	txW, txH := st.TransformSize()
	x0 := bx * BlockDim
	y0 := by * BlockDim
	pxW := covW * BlockDim
	pxH := covH * BlockDim
	if x0 < 0 || y0 < 0 || x0+pxW > s.img.Width() || y0+pxH > s.img.Height() {
		panic(fmt.Sprintf("acs: %v at unit (%d,%d) exceeds %dx%d image",
			st, bx, by, s.img.Width(), s.img.Height()))
	}

	n := txW * txH
	stride := s.img.Stride()
	invStep := 1.0 / float64(s.step)

	var bitsTotal, lossTotal float64
	for ty := y0; ty < y0+pxH; ty += txH {
		for tx := x0; tx < x0+pxW; tx += txW {
			for c := 0; c < 3; c++ {
				plane := s.img.Plane(c)
				for yy := 0; yy < txH; yy++ {
					copy(s.sc.pix[yy*txW:yy*txW+txW], plane[(ty+yy)*stride+tx:])
				}
				dct.Forward2D(s.sc.pix[:n], txW, txH, s.sc.coef[:n])
				loss := dct.QuantizeBlock(s.sc.coef[:n], n, s.step, s.sc.qc[:n])
				bitsTotal += float64(s.cmap[c]) * coeffBits(s.sc.qc[:n])
				lossTotal += float64(s.cmap[c]) * float64(loss)
			}
			bitsTotal += blockOverheadBits
		}
	}

	cost := (bitsTotal + infoLossMul*lossTotal*invStep) * st.EntropyMul()

	// Structure coupling: candidates contained in one 8x8 analysis cell
	// are penalized when that cell's content is directionally asymmetric,
	// biasing the search toward shapes matching the local structure.
	// Larger candidates span several cells and skip the term.
	if covW == 1 && covH == 1 {
		rh, rv, rd := s.similarity(bx, by)
		cost *= structureCouplingMul * (rh + rv + rd) / 3
	}
	return cost
}
