// Package image3 provides a planar three-channel float32 image used as the
// analysis-space input of the encoder. Channel 0 is the X (red-green
// opponent) plane, channel 1 the Y (luma) plane and channel 2 the B
// (blue-yellow) plane of an XYB-style perceptual color space. The color
// transform that produces these planes is not part of this module; callers
// supply already-converted data.
package image3

import "fmt"

// NumChannels is the number of planes an Image carries.
const NumChannels = 3

// Image is a planar three-channel float32 image. The engine treats it as
// read-only: all mutation happens through SetPixel during construction, and
// the selection engine never writes to it.
type Image struct {
	width  int
	height int
	stride int
	planes [NumChannels][]float32
}

// New allocates a w x h image with stride == w.
func New(w, h int) *Image {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("image3: invalid dimensions %dx%d", w, h))
	}
	img := &Image{width: w, height: h, stride: w}
	for c := range img.planes {
		img.planes[c] = make([]float32, w*h)
	}
	return img
}

// FromFunc builds a w x h image by evaluating f at every (channel, x, y).
// Intended for tests and synthetic inputs.
func FromFunc(w, h int, f func(c, x, y int) float32) *Image {
	img := New(w, h)
	for c := 0; c < NumChannels; c++ {
		for y := 0; y < h; y++ {
			row := img.planes[c][y*img.stride:]
			for x := 0; x < w; x++ {
				row[x] = f(c, x, y)
			}
		}
	}
	return img
}

// Width returns the valid extent in pixels along x.
func (img *Image) Width() int { return img.width }

// Height returns the valid extent in pixels along y.
func (img *Image) Height() int { return img.height }

// Stride returns the row stride of each plane, in float32 units.
func (img *Image) Stride() int { return img.stride }

// Pixel returns the value of channel c at absolute coordinates (x, y).
// Coordinates must lie inside [0,Width) x [0,Height); callers running
// filters past the image edge are expected to skip out-of-range taps
// rather than call Pixel for them.
func (img *Image) Pixel(c, x, y int) float32 {
	return img.planes[c][y*img.stride+x]
}

// SetPixel stores v in channel c at (x, y). Construction only.
func (img *Image) SetPixel(c, x, y int, v float32) {
	img.planes[c][y*img.stride+x] = v
}

// Plane returns the backing slice of channel c. The slice is shared with
// the image; treat it as read-only once selection has started.
func (img *Image) Plane(c int) []float32 {
	return img.planes[c]
}
