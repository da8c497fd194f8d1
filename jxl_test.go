package jxl

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepteams/jxl/acs"
	"github.com/deepteams/jxl/image3"
)

func TestDefaultOptions(t *testing.T) {
	opt := DefaultOptions(2.5)
	assert.Equal(t, 2.5, opt.Distance)
	assert.Equal(t, 4, opt.Effort)
	assert.False(t, opt.UseStructureHint)

	// Non-positive targets fall back to the default quality.
	assert.Equal(t, 1.0, DefaultOptions(0).Distance)
	assert.Equal(t, 1.0, DefaultOptions(-4).Distance)
}

func gradientImage(w, h int) *image3.Image {
	return image3.FromFunc(w, h, func(c, x, y int) float32 {
		v := float32(x+y) / float32(w+h)
		if c == 0 {
			return v * 0.1
		}
		return v
	})
}

func TestSelectTransformsCoversImage(t *testing.T) {
	img := gradientImage(128, 64)
	grid, total, err := SelectTransforms(context.Background(), img, nil)
	require.NoError(t, err)
	require.NoError(t, grid.Validate())
	assert.Equal(t, 16, grid.Width())
	assert.Equal(t, 8, grid.Height())
	assert.Greater(t, total, 0.0)

	// Every coding unit resolves to an anchor carrying its shape.
	for by := 0; by < grid.Height(); by++ {
		for bx := 0; bx < grid.Width(); bx++ {
			st, ok := grid.Strategy(bx, by)
			require.True(t, ok, "unit (%d,%d) unassigned", bx, by)
			ax, ay := grid.AnchorOf(bx, by)
			ast, _ := grid.Strategy(ax, ay)
			assert.Equal(t, st, ast)
		}
	}
}

func TestSelectTransformsUnalignedSize(t *testing.T) {
	img := image3.New(100, 64)
	_, _, err := SelectTransforms(context.Background(), img, nil)
	assert.True(t, errors.Is(err, acs.ErrUnalignedSize))
}

func TestSelectTransformsDeterministic(t *testing.T) {
	img := gradientImage(128, 128)
	opt := &Options{Distance: 1.0, Effort: 4}
	_, t1, err := SelectTransforms(context.Background(), img, opt)
	require.NoError(t, err)
	_, t2, err := SelectTransforms(context.Background(), img, opt)
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
}

func TestSelectTransformsStructureHintStillValid(t *testing.T) {
	// A busy image with the hint enabled must still satisfy the coverage
	// invariant; the hint only swaps 8x8 leaves for small-transform
	// families.
	img := image3.FromFunc(128, 128, func(c, x, y int) float32 {
		return float32(math.Sin(float64(x)*0.7) * math.Cos(float64(y)*1.3))
	})
	opt := &Options{Distance: 0.8, Effort: 2, UseStructureHint: true}
	grid, _, err := SelectTransforms(context.Background(), img, opt)
	require.NoError(t, err)
	require.NoError(t, grid.Validate())
}

func TestSelectTransformsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := SelectTransforms(ctx, gradientImage(256, 256), nil)
	assert.Error(t, err)
}

func BenchmarkSelectTransforms256(b *testing.B) {
	img := gradientImage(256, 256)
	opt := DefaultOptions(1.0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := SelectTransforms(context.Background(), img, opt); err != nil {
			b.Fatal(err)
		}
	}
}
