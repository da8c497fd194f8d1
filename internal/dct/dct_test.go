package dct

import (
	"math"
	"math/rand"
	"testing"
)

func TestForward2DConstantBlock(t *testing.T) {
	// A constant block concentrates all energy in the DC coefficient.
	for _, n := range []int{4, 8, 16, 32, 64} {
		src := make([]float32, n*n)
		for i := range src {
			src[i] = 2.5
		}
		dst := make([]float32, n*n)
		Forward2D(src, n, n, dst)

		wantDC := 2.5 * float32(n) // sqrt(1/n)*n per axis, squared
		if math.Abs(float64(dst[0]-wantDC)) > 1e-3 {
			t.Errorf("n=%d: DC = %v, want %v", n, dst[0], wantDC)
		}
		for i := 1; i < n*n; i++ {
			if math.Abs(float64(dst[i])) > 1e-3 {
				t.Errorf("n=%d: AC[%d] = %v, want ~0", n, i, dst[i])
				break
			}
		}
	}
}

func TestForward2DRectangular(t *testing.T) {
	// A horizontal ramp on an 8x4 block excites only row-frequency terms.
	const w, h = 8, 4
	src := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src[y*w+x] = float32(x)
		}
	}
	dst := make([]float32, w*h)
	Forward2D(src, w, h, dst)

	for k := 1; k < h; k++ {
		for x := 0; x < w; x++ {
			if math.Abs(float64(dst[k*w+x])) > 1e-3 {
				t.Fatalf("column frequency %d excited by horizontal ramp: %v", k, dst[k*w+x])
			}
		}
	}
	if dst[1] == 0 {
		t.Error("horizontal ramp produced no first row-frequency energy")
	}
}

func TestForward2DParseval(t *testing.T) {
	// Orthonormal transform preserves energy.
	rng := rand.New(rand.NewSource(42))
	const w, h = 16, 8
	src := make([]float32, w*h)
	var inEnergy float64
	for i := range src {
		src[i] = rng.Float32()*2 - 1
		inEnergy += float64(src[i]) * float64(src[i])
	}
	dst := make([]float32, w*h)
	Forward2D(src, w, h, dst)
	var outEnergy float64
	for _, c := range dst {
		outEnergy += float64(c) * float64(c)
	}
	if math.Abs(inEnergy-outEnergy)/inEnergy > 1e-4 {
		t.Errorf("energy not preserved: in=%v out=%v", inEnergy, outEnergy)
	}
}

func TestForward2DUnsupportedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Forward2D with 5x8 did not panic")
		}
	}()
	Forward2D(make([]float32, 40), 5, 8, make([]float32, 40))
}

func TestQuantizeBlockExactMultiples(t *testing.T) {
	coeffs := []float32{0, 0.5, -1.0, 2.5}
	q := make([]int32, 4)
	loss := QuantizeBlock(coeffs, 4, 0.5, q)
	want := []int32{0, 1, -2, 5}
	for i := range want {
		if q[i] != want[i] {
			t.Errorf("q[%d] = %d, want %d", i, q[i], want[i])
		}
	}
	if loss > 1e-6 {
		t.Errorf("loss = %v, want 0 for exact multiples", loss)
	}
}

func TestQuantizeBlockLoss(t *testing.T) {
	coeffs := []float32{0.3}
	q := make([]int32, 1)
	loss := QuantizeBlock(coeffs, 1, 1.0, q)
	if q[0] != 0 {
		t.Errorf("q[0] = %d, want 0", q[0])
	}
	if math.Abs(float64(loss)-0.3) > 1e-6 {
		t.Errorf("loss = %v, want 0.3", loss)
	}
}

func BenchmarkForward2D32(b *testing.B) {
	src := make([]float32, 32*32)
	for i := range src {
		src[i] = float32(i % 17)
	}
	dst := make([]float32, 32*32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Forward2D(src, 32, 32, dst)
	}
}
