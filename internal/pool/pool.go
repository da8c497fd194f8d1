// Package pool provides bucketed sync.Pool instances for float32 working
// buffers used by the transform and search hot paths. Buffers are organized
// by size class to minimize waste; the largest class covers a full 64x64
// coefficient block.
package pool

import "sync"

// Size classes, in float32 elements. Chosen to match the candidate transform
// areas: 64 covers up to 8x8, 512 up to 16x32, 4096 up to 64x64.
const (
	Size64  = 64
	Size256 = 256
	Size1K  = 1024
	Size4K  = 4096
)

var sizes = [4]int{Size64, Size256, Size1K, Size4K}

// bucketIndex returns the pool index for a given element count.
func bucketIndex(n int) int {
	switch {
	case n <= Size64:
		return 0
	case n <= Size256:
		return 1
	case n <= Size1K:
		return 2
	default:
		return 3
	}
}

var pools [4]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]float32, sz)
				return &b
			},
		}
	}
}

// GetFloat32 returns a float32 slice of exactly n elements from the pool.
// Contents are unspecified; callers must overwrite before reading.
// The caller must call PutFloat32 when done.
func GetFloat32(n int) []float32 {
	idx := bucketIndex(n)
	bp := pools[idx].Get().(*[]float32)
	b := *bp
	if cap(b) < n {
		b = make([]float32, n)
		*bp = b
		return b
	}
	return b[:n]
}

// PutFloat32 returns a slice obtained from GetFloat32 to the pool.
// Slices smaller than the smallest size class are not pooled.
func PutFloat32(b []float32) {
	c := cap(b)
	if c < Size64 {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	pools[idx].Put(&b)
}
