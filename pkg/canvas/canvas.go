// Package canvas provides fixed-capacity RGB565 pixel buffers and the
// segmented image container they are assembled into. An image taller than a
// single buffer is held as an ordered sequence of smaller canvases that are
// blitted one below the other at draw time.
package canvas

import "fmt"

// Canvas is a fixed-size 2-D buffer of RGB565 pixels. Its dimensions are set
// at allocation time and never change.
type Canvas struct {
	w, h int
	buf  []uint16
}

// Allocator produces a Canvas of the given dimensions. The image allocation
// path goes through an Allocator so that tests (and memory-constrained hosts)
// can inject failures.
type Allocator func(w, h int) (*Canvas, error)

// New allocates a canvas of w x h RGB565 pixels.
func New(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas: invalid dimensions %dx%d", w, h)
	}
	return &Canvas{w: w, h: h, buf: make([]uint16, w*h)}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.w }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.h }

// Buffer returns the backing pixel slice in row-major order.
func (c *Canvas) Buffer() []uint16 { return c.buf }

// At returns the pixel at (x, y). Out-of-range coordinates return 0.
func (c *Canvas) At(x, y int) uint16 {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return 0
	}
	return c.buf[y*c.w+x]
}

// RGB565 packs 8-bit color channels into the 5-6-5 encoding used by the
// canvases and by RGB565-native displays.
func RGB565(r, g, b byte) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3
}

// Expand565 unpacks a 5-6-5 pixel back to 8-bit channels, replicating the
// high bits into the low bits so that full white stays full white.
func Expand565(p uint16) (r, g, b byte) {
	r = byte(p >> 8 & 0xF8)
	g = byte(p >> 3 & 0xFC)
	b = byte(p << 3)
	return r | r>>5, g | g>>6, b | b>>5
}
