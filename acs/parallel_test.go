package acs

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRunRejectsNilImage(t *testing.T) {
	if _, _, err := Run(context.Background(), nil, Params{}); err == nil {
		t.Fatal("nil image accepted")
	}
}

func TestRunRejectsUnalignedSize(t *testing.T) {
	img := uniformImage(60, 64, 0.5)
	_, _, err := Run(context.Background(), img, Params{})
	if !errors.Is(err, ErrUnalignedSize) {
		t.Fatalf("err = %v, want ErrUnalignedSize", err)
	}
}

func TestRunCoversPartialRegions(t *testing.T) {
	// 128x96 pixels: two region columns, and the second region row is only
	// four coding units tall.
	img := noiseImage(128, 96, 17)
	grid, total, err := Run(context.Background(), img, Params{Distance: 1.0, Effort: 4, Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Validate(); err != nil {
		t.Fatal(err)
	}
	if grid.Width() != 16 || grid.Height() != 12 {
		t.Errorf("grid is %dx%d, want 16x12", grid.Width(), grid.Height())
	}
	if total <= 0 {
		t.Errorf("total = %v, want positive", total)
	}
}

type anchorList []struct {
	bx, by int
	st     Strategy
}

func anchorsOf(g *Grid) anchorList {
	var as anchorList
	g.ForEachAnchor(func(bx, by int, st Strategy) {
		as = append(as, struct {
			bx, by int
			st     Strategy
		}{bx, by, st})
	})
	return as
}

// The partition and the cost total must not depend on how many workers
// processed the regions.
func TestRunWorkerCountDoesNotChangeResult(t *testing.T) {
	img := noiseImage(192, 128, 29)
	p := Params{Distance: 1.0, Effort: 4}

	p.Workers = 1
	g1, t1, err := Run(context.Background(), img, p)
	if err != nil {
		t.Fatal(err)
	}
	p.Workers = 4
	g4, t4, err := Run(context.Background(), img, p)
	if err != nil {
		t.Fatal(err)
	}

	if t1 != t4 {
		t.Errorf("totals differ: 1 worker %v, 4 workers %v", t1, t4)
	}
	if !reflect.DeepEqual(anchorsOf(g1), anchorsOf(g4)) {
		t.Error("partitions differ between worker counts")
	}
}

func TestRunClampsParams(t *testing.T) {
	img := uniformImage(64, 64, 0.5)
	grid, _, err := Run(context.Background(), img, Params{Distance: -3, Effort: 99})
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Validate(); err != nil {
		t.Fatal(err)
	}
}

func BenchmarkRun256(b *testing.B) {
	img := noiseImage(256, 256, 8)
	p := Params{Distance: 1.0, Effort: 4}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Run(context.Background(), img, p); err != nil {
			b.Fatal(err)
		}
	}
}
