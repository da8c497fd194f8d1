package acs

import (
	"github.com/deepteams/jxl/image3"
	"github.com/deepteams/jxl/internal/quant"
)

// regionBlocks is the edge of one independently processed region, in coding
// units (64x64 pixels). Regions tile the image without overlap, which is
// what lets workers share the grid without locking.
const regionBlocks = 8

// Params configures one selection pass.
type Params struct {
	// Distance is the perceptual quality target (Butteraugli-style):
	// smaller means higher quality and tighter analysis thresholds.
	// Values <= 0 are treated as 1.0.
	Distance float64

	// Effort gates which candidate scales are searched (0-6, in the
	// spirit of the encoder's speed/quality settings):
	//   0-1: 8x8 only
	//   2-3: adds the 16-pixel family (16x16, 16x8, 8x16)
	//   4-5: adds the 32-pixel family
	//   6:   adds the 64-pixel family
	Effort int

	// UseStructureHint enables substituting the structure analyzer's
	// small-transform hint for the 8x8 leaf when it is strictly cheaper.
	// Off by default: the hint then still steers costs but never replaces
	// the winner.
	UseStructureHint bool

	// Workers caps the number of concurrent region workers.
	// Zero or negative means GOMAXPROCS.
	Workers int
}

// simEntry caches the similarity indices of one analysis cell for the
// duration of a region pass.
type simEntry struct {
	rh, rv, rd float64
	ok         bool
}

// searcher runs the partition search for a single region. Each worker owns
// one searcher at a time; the only shared state is the read-only image and
// the grid units of its region, which no other worker touches.
type searcher struct {
	img  *image3.Image
	grid *Grid
	p    Params
	step float32
	cmap quant.CmapFactors
	sc   *Scratch

	// Region bounds in coding units.
	rx, ry, rw, rh int

	sim [regionBlocks * regionBlocks]simEntry
}

// similarity returns the (cached) similarity indices of the analysis cell
// at coding unit (bx, by).
func (s *searcher) similarity(bx, by int) (rh, rv, rd float64) {
	idx := (by-s.ry)*regionBlocks + (bx - s.rx)
	e := &s.sim[idx]
	if !e.ok {
		e.rh, e.rv, e.rd = similarityIndices(s.img, s.sc, bx*BlockDim, by*BlockDim, s.p.Distance)
		e.ok = true
	}
	return e.rh, e.rv, e.rd
}

// scaleAllowed reports whether candidates of scale J (in coding units) are
// eligible under the configured effort.
func (s *searcher) scaleAllowed(J int) bool {
	switch J {
	case 1:
		return true
	case 2:
		return s.p.Effort >= 2
	case 4:
		return s.p.Effort >= 4
	case 8:
		return s.p.Effort >= 6
	}
	return false
}

// maxScale is the coarsest eligible square scale.
func (s *searcher) maxScale() int {
	switch {
	case s.p.Effort >= 6:
		return 8
	case s.p.Effort >= 4:
		return 4
	case s.p.Effort >= 2:
		return 2
	default:
		return 1
	}
}

// costFor returns the cost of placing st at (bx, by), reusing the stored
// cost when the unit is already assigned to the identical shape at the
// identical anchor. This is what makes re-trials of an unchanged shape
// free.
func (s *searcher) costFor(st Strategy, bx, by int) float64 {
	c := s.grid.at(bx, by)
	if c.state != stateUnvisited && c.offX == 0 && c.offY == 0 && c.strategy == st {
		return c.cost
	}
	return s.estimateCost(st, bx, by)
}

// processRegion runs the full single-pass search for the searcher's region:
// a top-down square-vs-split descent from the coarsest eligible scale,
// followed by greedy merge passes at each scale, then a final commit sweep.
// Returns the aggregate cost of the committed partition.
func (s *searcher) processRegion() float64 {
	maxJ := s.maxScale()
	for by := s.ry; by < s.ry+s.rh; by += maxJ {
		for bx := s.rx; bx < s.rx+s.rw; bx += maxJ {
			s.splitSearch(bx, by, maxJ)
		}
	}

	for J := 2; J <= maxJ; J *= 2 {
		if s.scaleAllowed(J) {
			s.mergePass(J)
		}
	}

	s.grid.commitRect(s.rx, s.ry, s.rw, s.rh)
	total, ok := s.grid.sumCosts(s.rx, s.ry, s.rw, s.rh)
	if !ok {
		panic("acs: region finished with uncovered coding units")
	}
	return total
}

// quadRecurse subdivides the JxJ area into its (up to four) KxK quadrants
// and searches each one that intersects the region.
func (s *searcher) quadRecurse(bx, by, K int) float64 {
	var total float64
	quads := [4][2]int{{bx, by}, {bx + K, by}, {bx, by + K}, {bx + K, by + K}}
	for _, q := range quads {
		if q[0] < s.rx+s.rw && q[1] < s.ry+s.rh {
			total += s.splitSearch(q[0], q[1], K)
		}
	}
	return total
}

// splitSearch performs the top-down decision for the JxJ square anchored at
// (bx, by): keep the square, split it into two JxK or KxJ rectangles, or
// descend further. All comparisons are strict; ties keep the finer option.
// Tentative assignments are written into the grid and may be overwritten by
// an enclosing decision before the region pass completes.
func (s *searcher) splitSearch(bx, by, J int) float64 {
	if J == 1 {
		return s.leaf(bx, by)
	}
	K := J / 2
	if bx+J > s.rx+s.rw || by+J > s.ry+s.rh {
		// Square does not fit in this region; descend.
		return s.quadRecurse(bx, by, K)
	}
	if !s.scaleAllowed(J) {
		return s.quadRecurse(bx, by, K)
	}

	sq := scaleSquare[J]
	wide := scaleWide[J]
	tall := scaleTall[J]

	cs := s.costFor(sq, bx, by)
	cv := s.costFor(wide, bx, by) + s.costFor(wide, bx, by+K)
	ch := s.costFor(tall, bx, by) + s.costFor(tall, bx+K, by)

	// The square wins only by strict improvement over both rectangle
	// pairings; when it does, no finer subdivision is explored beneath it.
	if cs < cv && cs < ch {
		s.grid.place(sq, bx, by, sq.Priority(), cs)
		return cs
	}

	// Rectangle path. Ties keep the first-evaluated (wide) orientation.
	shape := wide
	slabs := [2][2]int{{bx, by}, {bx, by + K}}
	quads := [2][2][2]int{
		{{bx, by}, {bx + K, by}},
		{{bx, by + K}, {bx + K, by + K}},
	}
	if ch < cv {
		shape = tall
		slabs = [2][2]int{{bx, by}, {bx + K, by}}
		quads = [2][2][2]int{
			{{bx, by}, {bx, by + K}},
			{{bx + K, by}, {bx + K, by + K}},
		}
	}

	var total float64
	for i := 0; i < 2; i++ {
		ax, ay := slabs[i][0], slabs[i][1]
		slabCost := s.costFor(shape, ax, ay)
		finer := s.splitSearch(quads[i][0][0], quads[i][0][1], K) +
			s.splitSearch(quads[i][1][0], quads[i][1][1], K)
		// Strict improvement required for the coarser slab to override
		// the finer tentative assignment; ties keep the finer one.
		if slabCost < finer {
			s.grid.place(shape, ax, ay, shape.Priority(), slabCost)
			total += slabCost
		} else {
			total += finer
		}
	}
	return total
}

// leaf decides the transform of a single coding unit. The 8x8 transform is
// the baseline; when the structure hint is enabled, the analyzer's
// small-transform family is the only alternative evaluated, and it
// substitutes the square only on strict improvement.
func (s *searcher) leaf(bx, by int) float64 {
	best := DCT8X8
	bestCost := s.costFor(DCT8X8, bx, by)

	if s.p.UseStructureHint {
		rh, rv, rd := s.similarity(bx, by)
		var cand Strategy
		switch partitionHint(rh, rv, rd, s.p.Distance) {
		case HintSplit4x4:
			cand = DCT4X4
		case HintSplit8x4:
			cand = DCT8X4
		case HintSplit4x8:
			cand = DCT4X8
		default:
			cand = DCT8X8
		}
		if cand != DCT8X8 {
			if c := s.costFor(cand, bx, by); c < bestCost {
				best, bestCost = cand, c
			}
		}
	}

	s.grid.place(best, bx, by, best.Priority(), bestCost)
	return bestCost
}

// mergePass greedily replaces groups of adjacent committed transforms with
// one larger transform of scale J wherever that is strictly cheaper than
// the sum of the constituents.
func (s *searcher) mergePass(J int) {
	K := J / 2
	for by := s.ry; by+J <= s.ry+s.rh; by += J {
		for bx := s.rx; bx+J <= s.rx+s.rw; bx += J {
			s.tryMergeAcs(scaleWide[J], bx, by)
			s.tryMergeAcs(scaleWide[J], bx, by+K)
			s.tryMergeAcs(scaleTall[J], bx, by)
			s.tryMergeAcs(scaleTall[J], bx+K, by)
			s.tryMergeAcs(scaleSquare[J], bx, by)
		}
	}
}

// tryMergeAcs attempts to replace the transforms currently tiling the
// footprint of st at (bx, by) with st itself. The merge is accepted only if
// the merged cost is strictly below the constituents' total, the footprint
// is tiled exactly (no constituent sticking out), and the merge's priority
// dominates every constituent's.
func (s *searcher) tryMergeAcs(st Strategy, bx, by int) {
	covW, covH := st.CoverageBlocks()

	c := s.grid.at(bx, by)
	if c.state != stateUnvisited && c.offX == 0 && c.offY == 0 && c.strategy == st {
		return // already this shape
	}
	if st.Priority() <= s.grid.maxPriority(bx, by, covW, covH) {
		return
	}
	sum, ok := s.grid.sumCosts(bx, by, covW, covH)
	if !ok {
		return
	}
	merged := s.estimateCost(st, bx, by)
	if merged < sum {
		s.grid.place(st, bx, by, st.Priority(), merged)
	}
}
