package imagereader

import (
	"runtime"

	"github.com/zurustar/bmp-canvas/pkg/canvas"
)

// region is the sub-rectangle of the source image being decoded. The load
// path always decodes the full image at (0, 0); the screen path crops to
// what is visible on the sink.
type region struct {
	x, y, w, h int
}

// rowFunc consumes one converted scanline per call, in destination row
// order. Returning false stops the decode early (all rows delivered so far
// remain valid; the operation still reports Success).
type rowFunc func(row int, pixels []uint16) bool

// clip intersects an image placed at (x, y) with the sink bounds, returning
// the source region to decode and the adjusted destination origin. visible
// is false when nothing of the image lands on the sink.
func clip(hdr bmpHeader, sink canvas.DisplaySink, x, y int) (reg region, dx, dy int, visible bool) {
	sw, sh := sink.Size()
	reg = region{w: hdr.width, h: hdr.height}
	if x < 0 {
		reg.x = -x
		reg.w += x
		x = 0
	}
	if y < 0 {
		reg.y = -y
		reg.h += y
		y = 0
	}
	if x+reg.w > sw {
		reg.w = sw - x
	}
	if y+reg.h > sh {
		reg.h = sh - y
	}
	return reg, x, y, reg.w > 0 && reg.h > 0
}

// streamRows is the decode engine shared by the load and draw paths. For
// each destination row it computes the source offset (honoring vertical
// flip, scanline padding and the crop origin), refills the bounded scratch
// buffer as it drains, converts BGR source pixels to RGB565 and hands the
// finished row to dst. The source is assumed open and is closed by the
// caller; the header is assumed to have passed decodable().
func (r *Reader) streamRows(hdr bmpHeader, reg region, dst rowFunc) Result {
	const bytesPerPixel = 3 // B, G, R at 24-bit depth

	stride := int64(hdr.rowStride())
	scratch := make([]byte, bytesPerPixel*r.scratchPixels)
	srcIdx := len(scratch) // exhausted; first pixel forces a refill
	rowBuf := make([]uint16, reg.w)

	for row := 0; row < reg.h; row++ {
		// Let other goroutines run during long decodes.
		runtime.Gosched()

		// Seeking per row covers cropping, flip and padding in one place.
		// The seek itself only happens when the position would actually
		// change, which keeps sequential rows cheap.
		var pos int64
		if hdr.topDown {
			pos = int64(hdr.dataOffset) + int64(row+reg.y)*stride
		} else {
			// Bottom-to-top storage order, the canonical BMP layout.
			pos = int64(hdr.dataOffset) + int64(hdr.height-1-(row+reg.y))*stride
		}
		pos += int64(reg.x) * bytesPerPixel
		if r.pos != pos {
			r.seek(pos)
			srcIdx = len(scratch) // scratch no longer matches the position
		}

		for col := 0; col < reg.w; col++ {
			if srcIdx >= len(scratch) {
				r.fill(scratch)
				srcIdx = 0
			}
			b := scratch[srcIdx]
			g := scratch[srcIdx+1]
			red := scratch[srcIdx+2]
			srcIdx += bytesPerPixel
			rowBuf[col] = canvas.RGB565(red, g, b)
		}
		if !dst(row, rowBuf) {
			break
		}
	}
	return Success
}
