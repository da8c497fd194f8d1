package acs

import (
	"errors"
	"fmt"
)

// cellState tracks the lifecycle of one coding unit during a selection pass.
type cellState uint8

const (
	stateUnvisited cellState = iota
	stateTentative
	stateCommitted
)

// cell is the per-coding-unit record of the partition grid.
type cell struct {
	strategy Strategy
	offX     uint8 // offset from the covering transform's anchor, in units
	offY     uint8
	state    cellState
	priority uint8
	cost     float64 // estimated cost of the covering transform; anchor only
}

// Grid is the partition assignment: one entry per 8x8 coding unit recording
// which transform covers it and where the transform is anchored. A grid is
// created empty per encode pass, filled by the search, and then read by the
// downstream entropy-coding stage.
type Grid struct {
	bw, bh int
	cells  []cell
}

// NewGrid returns an empty grid for an image of bw x bh coding units.
func NewGrid(bw, bh int) *Grid {
	if bw <= 0 || bh <= 0 {
		panic(fmt.Sprintf("acs: invalid grid size %dx%d", bw, bh))
	}
	return &Grid{bw: bw, bh: bh, cells: make([]cell, bw*bh)}
}

// Width returns the grid width in coding units.
func (g *Grid) Width() int { return g.bw }

// Height returns the grid height in coding units.
func (g *Grid) Height() int { return g.bh }

func (g *Grid) at(bx, by int) *cell {
	return &g.cells[by*g.bw+bx]
}

// Strategy returns the transform covering unit (bx, by) and whether the
// unit has been assigned.
func (g *Grid) Strategy(bx, by int) (Strategy, bool) {
	c := g.at(bx, by)
	if c.state == stateUnvisited {
		return 0, false
	}
	return c.strategy, true
}

// IsAnchor reports whether (bx, by) is the top-left unit of its covering
// transform.
func (g *Grid) IsAnchor(bx, by int) bool {
	c := g.at(bx, by)
	return c.state != stateUnvisited && c.offX == 0 && c.offY == 0
}

// AnchorOf returns the anchor coordinates of the transform covering
// (bx, by). The unit must be assigned.
func (g *Grid) AnchorOf(bx, by int) (ax, ay int) {
	c := g.at(bx, by)
	if c.state == stateUnvisited {
		panic(fmt.Sprintf("acs: AnchorOf on unassigned unit (%d,%d)", bx, by))
	}
	return bx - int(c.offX), by - int(c.offY)
}

// Cost returns the committed cost estimate stored at anchor (bx, by).
func (g *Grid) Cost(bx, by int) float64 {
	return g.at(bx, by).cost
}

// ForEachAnchor calls f once per covering transform, in row-major anchor
// order. This is the iteration surface for the downstream coder.
func (g *Grid) ForEachAnchor(f func(bx, by int, s Strategy)) {
	for by := 0; by < g.bh; by++ {
		for bx := 0; bx < g.bw; bx++ {
			c := g.at(bx, by)
			if c.state != stateUnvisited && c.offX == 0 && c.offY == 0 {
				f(bx, by, c.strategy)
			}
		}
	}
}

// place assigns strategy s anchored at (bx, by), overwriting whatever the
// footprint previously held. Placement outside the grid is a caller defect.
func (g *Grid) place(s Strategy, bx, by int, priority uint8, cost float64) {
	covW, covH := s.CoverageBlocks()
	if bx < 0 || by < 0 || bx+covW > g.bw || by+covH > g.bh {
		panic(fmt.Sprintf("acs: %v anchored at (%d,%d) exceeds %dx%d grid", s, bx, by, g.bw, g.bh))
	}
	for dy := 0; dy < covH; dy++ {
		for dx := 0; dx < covW; dx++ {
			c := g.at(bx+dx, by+dy)
			c.strategy = s
			c.offX = uint8(dx)
			c.offY = uint8(dy)
			c.state = stateTentative
			c.priority = priority
			c.cost = 0
		}
	}
	g.at(bx, by).cost = cost
}

// commitRect locks all units in the given rectangle for this pass.
func (g *Grid) commitRect(bx, by, w, h int) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			g.at(bx+dx, by+dy).state = stateCommitted
		}
	}
}

// sumCosts adds up the anchor costs of all transforms fully contained in
// the rectangle. Returns false if any unit is unassigned or covered by a
// transform extending outside the rectangle.
func (g *Grid) sumCosts(bx, by, w, h int) (float64, bool) {
	var sum float64
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c := g.at(bx+dx, by+dy)
			if c.state == stateUnvisited {
				return 0, false
			}
			ax := bx + dx - int(c.offX)
			ay := by + dy - int(c.offY)
			covW, covH := c.strategy.CoverageBlocks()
			if ax < bx || ay < by || ax+covW > bx+w || ay+covH > by+h {
				return 0, false
			}
			if c.offX == 0 && c.offY == 0 {
				sum += c.cost
			}
		}
	}
	return sum, true
}

// maxPriority returns the highest priority tag among the units of the
// rectangle.
func (g *Grid) maxPriority(bx, by, w, h int) uint8 {
	var p uint8
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			if q := g.at(bx+dx, by+dy).priority; q > p {
				p = q
			}
		}
	}
	return p
}

// ErrIncompletePartition is returned by Validate when a coding unit is left
// unassigned or two assignments overlap inconsistently.
var ErrIncompletePartition = errors.New("acs: incomplete or inconsistent partition")

// Validate checks the coverage invariant: every unit committed, every unit's
// offset pointing at a real anchor of the same strategy, and every anchor's
// footprint lying inside the grid.
func (g *Grid) Validate() error {
	for by := 0; by < g.bh; by++ {
		for bx := 0; bx < g.bw; bx++ {
			c := g.at(bx, by)
			if c.state != stateCommitted {
				return fmt.Errorf("%w: unit (%d,%d) not committed", ErrIncompletePartition, bx, by)
			}
			ax := bx - int(c.offX)
			ay := by - int(c.offY)
			if ax < 0 || ay < 0 {
				return fmt.Errorf("%w: unit (%d,%d) offset outside grid", ErrIncompletePartition, bx, by)
			}
			a := g.at(ax, ay)
			if a.strategy != c.strategy || a.offX != 0 || a.offY != 0 {
				return fmt.Errorf("%w: unit (%d,%d) points at invalid anchor (%d,%d)", ErrIncompletePartition, bx, by, ax, ay)
			}
			covW, covH := c.strategy.CoverageBlocks()
			if int(c.offX) >= covW || int(c.offY) >= covH || ax+covW > g.bw || ay+covH > g.bh {
				return fmt.Errorf("%w: unit (%d,%d) outside its transform footprint", ErrIncompletePartition, bx, by)
			}
		}
	}
	return nil
}

// TotalCost sums the committed cost estimates over the whole grid.
func (g *Grid) TotalCost() float64 {
	var sum float64
	g.ForEachAnchor(func(bx, by int, _ Strategy) {
		sum += g.at(bx, by).cost
	})
	return sum
}
