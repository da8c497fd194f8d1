// Package dct implements the floating-point transforms and the scalar
// quantization used by the transform-selection cost estimator. Both are pure
// functions over caller-provided buffers; the package keeps no state beyond
// precomputed cosine basis tables.
package dct

import (
	"fmt"
	"math"

	"github.com/deepteams/jxl/internal/pool"
)

// MaxDim is the largest supported transform edge, in pixels.
const MaxDim = 64

// Supported one-dimensional sizes. Candidate shapes combine these per axis.
var supportedSizes = [5]int{4, 8, 16, 32, 64}

// basis[n] holds the orthonormal DCT-II basis for size n, laid out as
// basis[n][k*n+x] = s(k) * cos(pi*(x+0.5)*k/n) with s(0)=sqrt(1/n) and
// s(k)=sqrt(2/n) otherwise.
var basis [MaxDim + 1][]float32

func init() {
	for _, n := range supportedSizes {
		b := make([]float32, n*n)
		for k := 0; k < n; k++ {
			s := math.Sqrt(2.0 / float64(n))
			if k == 0 {
				s = math.Sqrt(1.0 / float64(n))
			}
			for x := 0; x < n; x++ {
				b[k*n+x] = float32(s * math.Cos(math.Pi*(float64(x)+0.5)*float64(k)/float64(n)))
			}
		}
		basis[n] = b
	}
}

func sizeSupported(n int) bool {
	return n <= MaxDim && basis[n] != nil
}

// Forward2D computes the separable two-dimensional DCT-II of an w x h
// row-major block. src and dst must both hold w*h values; they may alias.
// Unsupported sizes indicate a caller defect and panic.
func Forward2D(src []float32, w, h int, dst []float32) {
	if !sizeSupported(w) || !sizeSupported(h) {
		panic(fmt.Sprintf("dct: unsupported block size %dx%d", w, h))
	}
	tmp := pool.GetFloat32(w * h)
	defer pool.PutFloat32(tmp)

	// Rows: tmp[y][k] = sum_x src[y][x] * basis_w[k][x].
	bw := basis[w]
	for y := 0; y < h; y++ {
		row := src[y*w : y*w+w]
		out := tmp[y*w : y*w+w]
		for k := 0; k < w; k++ {
			var acc float32
			bk := bw[k*w : k*w+w]
			for x := 0; x < w; x++ {
				acc += row[x] * bk[x]
			}
			out[k] = acc
		}
	}

	// Columns: dst[k][x] = sum_y tmp[y][x] * basis_h[k][y].
	bh := basis[h]
	for x := 0; x < w; x++ {
		for k := 0; k < h; k++ {
			var acc float32
			bk := bh[k*h : k*h+h]
			for y := 0; y < h; y++ {
				acc += tmp[y*w+x] * bk[y]
			}
			dst[k*w+x] = acc
		}
	}
}

// QuantizeBlock quantizes n coefficients with a uniform scalar step and
// writes the quantized values to q (which must hold at least n entries).
// The returned scalar is the information loss: the sum of absolute
// dequantization residuals |c - q*step|.
func QuantizeBlock(coeffs []float32, n int, step float32, q []int32) float32 {
	if step <= 0 {
		panic("dct: non-positive quantization step")
	}
	inv := 1.0 / step
	var loss float32
	for i := 0; i < n; i++ {
		c := coeffs[i]
		v := int32(math.RoundToEven(float64(c * inv)))
		q[i] = v
		r := c - float32(v)*step
		if r < 0 {
			r = -r
		}
		loss += r
	}
	return loss
}
