package acs

import (
	"fmt"
	"math"

	"github.com/deepteams/jxl/image3"
)

// Analysis channels of the input image.
const (
	chX = 0 // red-green opponent
	chY = 1 // luma
	chB = 2 // blue-yellow opponent
)

// edgeThreshold selects the Laplacian crossing threshold for a quality
// target. Tighter quality budgets use a lower threshold, counting fainter
// edges.
func edgeThreshold(distance float64) float32 {
	switch {
	case distance > 10.0:
		return 0.40
	case distance <= 2.0:
		return 0.15
	default:
		return 0.25
	}
}

// ratioThreshold selects the similarity-index threshold above which a
// split hint fires.
func ratioThreshold(distance float64) float64 {
	switch {
	case distance > 10.0:
		return 1.80
	case distance <= 3.0:
		return 1.50
	default:
		return 1.60
	}
}

// SplitHint is the advisory outcome of the partition-hint analysis for one
// 8x8 cell: which small-transform family is likely cheaper than the full
// square, if any.
type SplitHint uint8

const (
	HintKeepSquare SplitHint = iota
	HintSplit4x4
	HintSplit8x4 // horizontal split: top/bottom 8x4 halves
	HintSplit4x8 // vertical split: left/right 4x8 halves
)

func (h SplitHint) String() string {
	switch h {
	case HintSplit4x4:
		return "4x4"
	case HintSplit8x4:
		return "8x4"
	case HintSplit4x8:
		return "4x8"
	default:
		return "keep"
	}
}

// homogeneity computes the Homogeneity Score of a sub-rectangle of the 8x8
// analysis cell anchored at pixel (x0, y0): the sum of edge-crossing
// density, sum-modified-Laplacian focus and colorfulness. The sub-rectangle
// is given by its offset (ox, oy) and size (w, h) inside the cell and must
// satisfy ox+w <= 8, oy+h <= 8; anything else is a caller defect.
//
// Filter taps falling outside the valid image extent contribute nothing:
// the statistics of a sub-rectangle flush against the image edge depend
// only on interior pixels.
func homogeneity(img *image3.Image, sc *Scratch, x0, y0, ox, oy, w, h int, distance float64) float64 {
	if ox < 0 || oy < 0 || w <= 0 || h <= 0 || ox+w > BlockDim || oy+h > BlockDim {
		panic(fmt.Sprintf("acs: sub-rectangle %d,%d %dx%d exceeds analysis cell", ox, oy, w, h))
	}
	px := x0 + ox
	py := y0 + oy
	e := edgeCrossings(img, sc, px, py, w, h, edgeThreshold(distance))
	f := focusMeasure(img, px, py, w, h)
	c := colorfulness(img, px, py, w, h)
	return e + f + c
}

// edgeCrossings filters the luma channel of the w x h rectangle at (px, py)
// with the discrete Laplacian
//
//	 0 -1  0
//	-1 -4 -1
//	 0 -1  0
//
// then counts threshold crossings along every row and column. A crossing is
// a transition from below-or-equal-threshold to above-threshold. Row
// crossings are normalized by the rectangle height, column crossings by its
// width, and the two rates summed.
func edgeCrossings(img *image3.Image, sc *Scratch, px, py, w, h int, thresh float32) float64 {
	width := img.Width()
	height := img.Height()

	lap := sc.lap[:w*h]
	for dy := 0; dy < h; dy++ {
		y := py + dy
		for dx := 0; dx < w; dx++ {
			x := px + dx
			var v float32
			if x >= 0 && x < width && y >= 0 && y < height {
				v = -4 * img.Pixel(chY, x, y)
				if x > 0 {
					v -= img.Pixel(chY, x-1, y)
				}
				if x+1 < width {
					v -= img.Pixel(chY, x+1, y)
				}
				if y > 0 {
					v -= img.Pixel(chY, x, y-1)
				}
				if y+1 < height {
					v -= img.Pixel(chY, x, y+1)
				}
			}
			lap[dy*w+dx] = v
		}
	}

	horiz := 0
	for dy := 0; dy < h; dy++ {
		row := lap[dy*w : dy*w+w]
		above := row[0] > thresh
		for dx := 1; dx < w; dx++ {
			now := row[dx] > thresh
			if now && !above {
				horiz++
			}
			above = now
		}
	}

	vert := 0
	for dx := 0; dx < w; dx++ {
		above := lap[dx] > thresh
		for dy := 1; dy < h; dy++ {
			now := lap[dy*w+dx] > thresh
			if now && !above {
				vert++
			}
			above = now
		}
	}

	return float64(horiz)/float64(h) + float64(vert)/float64(w)
}

// focusMeasure computes the sum-modified-Laplacian of the rectangle on the
// luma channel: |2p - left - right| + |2p - up - down| accumulated over
// every pixel at least one pixel away from the image boundary. Pixels whose
// four-neighborhood leaves the image are skipped entirely.
func focusMeasure(img *image3.Image, px, py, w, h int) float64 {
	width := img.Width()
	height := img.Height()

	var sum float64
	for dy := 0; dy < h; dy++ {
		y := py + dy
		if y < 1 || y >= height-1 {
			continue
		}
		for dx := 0; dx < w; dx++ {
			x := px + dx
			if x < 1 || x >= width-1 {
				continue
			}
			p := float64(img.Pixel(chY, x, y))
			hTerm := math.Abs(2*p - float64(img.Pixel(chY, x-1, y)) - float64(img.Pixel(chY, x+1, y)))
			vTerm := math.Abs(2*p - float64(img.Pixel(chY, x, y-1)) - float64(img.Pixel(chY, x, y+1)))
			sum += hTerm + vTerm
		}
	}
	return sum
}

// colorfulness combines the spread and magnitude of the two opponent-color
// channels over the rectangle: sqrt(varX + varB) + 0.3*sqrt(meanX^2 +
// meanB^2). Pixels outside the valid extent are excluded from the moments.
func colorfulness(img *image3.Image, px, py, w, h int) float64 {
	width := img.Width()
	height := img.Height()

	var sumX, sumB, sumXX, sumBB float64
	n := 0
	for dy := 0; dy < h; dy++ {
		y := py + dy
		if y < 0 || y >= height {
			continue
		}
		for dx := 0; dx < w; dx++ {
			x := px + dx
			if x < 0 || x >= width {
				continue
			}
			vx := float64(img.Pixel(chX, x, y))
			vb := float64(img.Pixel(chB, x, y))
			sumX += vx
			sumB += vb
			sumXX += vx * vx
			sumBB += vb * vb
			n++
		}
	}
	if n == 0 {
		return 0
	}
	meanX := sumX / float64(n)
	meanB := sumB / float64(n)
	varX := sumXX/float64(n) - meanX*meanX
	varB := sumBB/float64(n) - meanB*meanB
	if varX < 0 {
		varX = 0
	}
	if varB < 0 {
		varB = 0
	}
	return math.Sqrt(varX+varB) + 0.3*math.Sqrt(meanX*meanX+meanB*meanB)
}

// ratioEps keeps similarity ratios finite and makes a perfectly uniform
// cell (both scores zero) come out as exactly 1.0.
const ratioEps = 1e-9

func safeRatio(a, b float64) float64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}
	return (hi + ratioEps) / (lo + ratioEps)
}

// similarityIndices computes the three split-asymmetry ratios of the 8x8
// analysis cell anchored at pixel (x0, y0):
//
//	rh: top vs bottom 8x4 halves (horizontal split)
//	rv: left vs right 4x8 halves (vertical split)
//	rd: the two diagonal pairings of 4x4 quadrants
//
// Each ratio is max/min of the paired Homogeneity Scores, so all are >= 1.
// The diagonal pairing sums are intentionally lopsided (A + B/2); see the
// pinning test before changing this.
func similarityIndices(img *image3.Image, sc *Scratch, x0, y0 int, distance float64) (rh, rv, rd float64) {
	top := homogeneity(img, sc, x0, y0, 0, 0, 8, 4, distance)
	bottom := homogeneity(img, sc, x0, y0, 0, 4, 8, 4, distance)
	left := homogeneity(img, sc, x0, y0, 0, 0, 4, 8, distance)
	right := homogeneity(img, sc, x0, y0, 4, 0, 4, 8, distance)

	q00 := homogeneity(img, sc, x0, y0, 0, 0, 4, 4, distance)
	q10 := homogeneity(img, sc, x0, y0, 4, 0, 4, 4, distance)
	q01 := homogeneity(img, sc, x0, y0, 0, 4, 4, 4, distance)
	q11 := homogeneity(img, sc, x0, y0, 4, 4, 4, 4, distance)
	diagMain := q00 + q11/2
	diagAnti := q10 + q01/2

	rh = safeRatio(top, bottom)
	rv = safeRatio(left, right)
	rd = safeRatio(diagMain, diagAnti)
	return rh, rv, rd
}

// partitionHint maps the three similarity indices to the small-transform
// family most likely to beat the full 8x8 square, using the
// quality-dependent ratio threshold. The hint is advisory: it narrows the
// candidate search, and substituting the winner is gated behind
// Params.UseStructureHint.
func partitionHint(rh, rv, rd, distance float64) SplitHint {
	thr := ratioThreshold(distance)
	switch {
	case rd > thr:
		return HintSplit4x4
	case rh > thr && rh > rv:
		return HintSplit8x4
	case rv > thr && rv > rh:
		return HintSplit4x8
	default:
		return HintKeepSquare
	}
}
