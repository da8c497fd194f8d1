package acs

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/deepteams/jxl/image3"
	"github.com/deepteams/jxl/internal/quant"
)

// ErrUnalignedSize is returned when the image extent is not a whole number
// of coding units. Padding to a multiple of 8 is the caller's concern (the
// color transform stage pads its output).
var ErrUnalignedSize = errors.New("acs: image dimensions must be multiples of 8")

// Run selects a transform for every coding unit of img and returns the
// committed partition grid together with the aggregate cost estimate.
//
// Regions of 64x64 pixels are processed by independent workers. Regions
// never share coding units, so workers write disjoint parts of the grid
// with no synchronization; each owns its scratch buffers. Cancellation is
// honored between regions only; a region that has started always runs to
// completion.
func Run(ctx context.Context, img *image3.Image, p Params) (*Grid, float64, error) {
	if img == nil {
		return nil, 0, errors.New("acs: nil image")
	}
	w, h := img.Width(), img.Height()
	if w%BlockDim != 0 || h%BlockDim != 0 {
		return nil, 0, fmt.Errorf("%w: %dx%d", ErrUnalignedSize, w, h)
	}

	if p.Distance <= 0 {
		p.Distance = 1.0
	}
	if p.Effort < 0 {
		p.Effort = 0
	}
	if p.Effort > 6 {
		p.Effort = 6
	}

	bw := w / BlockDim
	bh := h / BlockDim
	grid := NewGrid(bw, bh)

	tilesX := (bw + regionBlocks - 1) / regionBlocks
	tilesY := (bh + regionBlocks - 1) / regionBlocks
	nTiles := tilesX * tilesY
	costs := make([]float64, nTiles)

	step := quant.StepForDistance(p.Distance)
	cmap := quant.DefaultCmapFactors()

	numWorkers := p.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > nTiles {
		numWorkers = nTiles
	}

	g, gctx := errgroup.WithContext(ctx)
	var nextTile atomic.Int32

	for wi := 0; wi < numWorkers; wi++ {
		g.Go(func() error {
			sc := getScratch()
			defer putScratch(sc)
			for {
				idx := int(nextTile.Add(1) - 1)
				if idx >= nTiles {
					return nil
				}
				// Abort between regions, never mid-region.
				if err := gctx.Err(); err != nil {
					return err
				}
				tx := idx % tilesX
				ty := idx / tilesX
				s := searcher{
					img:  img,
					grid: grid,
					p:    p,
					step: step,
					cmap: cmap,
					sc:   sc,
					rx:   tx * regionBlocks,
					ry:   ty * regionBlocks,
				}
				s.rw = bw - s.rx
				if s.rw > regionBlocks {
					s.rw = regionBlocks
				}
				s.rh = bh - s.ry
				if s.rh > regionBlocks {
					s.rh = regionBlocks
				}
				s.sim = [regionBlocks * regionBlocks]simEntry{}
				costs[idx] = s.processRegion()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	// Deterministic total: sum in tile order regardless of which worker
	// produced each region.
	var total float64
	for _, c := range costs {
		total += c
	}
	return grid, total, nil
}
