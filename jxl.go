package jxl

import (
	"context"

	"github.com/deepteams/jxl/acs"
	"github.com/deepteams/jxl/image3"
)

// Options controls a transform-selection pass.
type Options struct {
	// Distance is the perceptual quality target (Butteraugli-style
	// distance, default 1.0). Smaller means higher quality.
	Distance float64

	// Effort controls how hard the search works (0-6, default 4).
	// Higher effort enables larger transform candidates:
	//   0-1: 8x8 transforms only
	//   2-3: adds the 16-pixel family
	//   4-5: adds the 32-pixel family (default)
	//   6:   adds the 64-pixel family
	Effort int

	// UseStructureHint lets the structure analyzer's small-transform hint
	// replace an 8x8 leaf when strictly cheaper. Off by default; enabling
	// it changes the selected partitions.
	UseStructureHint bool

	// Workers caps concurrent region workers (0 = GOMAXPROCS).
	Workers int
}

// DefaultOptions returns encoder defaults for the given quality target.
// Non-positive distances are treated as 1.0.
func DefaultOptions(distance float64) *Options {
	if distance <= 0 {
		distance = 1.0
	}
	return &Options{
		Distance: distance,
		Effort:   4,
	}
}

// SelectTransforms chooses one transform per 8x8 coding unit of img and
// returns the committed partition grid plus the aggregate cost estimate.
// The image must already be in analysis color space with both dimensions
// multiples of 8 (acs.ErrUnalignedSize otherwise). The pass is
// deterministic: identical inputs yield an identical grid and total.
func SelectTransforms(ctx context.Context, img *image3.Image, opt *Options) (*acs.Grid, float64, error) {
	if opt == nil {
		opt = DefaultOptions(1.0)
	}
	return acs.Run(ctx, img, acs.Params{
		Distance:         opt.Distance,
		Effort:           opt.Effort,
		UseStructureHint: opt.UseStructureHint,
		Workers:          opt.Workers,
	})
}
