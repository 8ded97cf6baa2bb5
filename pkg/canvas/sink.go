package canvas

import "image"

// DisplaySink is a rectangular-blit destination for RGB565 pixel data, the
// abstraction behind both the screen path and the Image.Draw path.
type DisplaySink interface {
	// Size returns the sink dimensions in pixels, used for clipping.
	Size() (w, h int)
	// BlitRGB565 copies a w x h block of row-major RGB565 pixels to (x, y).
	// The block is guaranteed to lie inside the sink bounds by the caller.
	BlitRGB565(x, y int, pixels []uint16, w, h int)
}

// RGBASink is a DisplaySink backed by an in-memory RGBA image, expanding
// 5-6-5 pixels to 8-bit channels as they arrive. The result can be handed
// to any image consumer (the viewer uploads it to the GPU once).
type RGBASink struct {
	img *image.RGBA
}

// NewRGBASink creates a w x h RGBA-backed sink.
func NewRGBASink(w, h int) *RGBASink {
	return &RGBASink{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Size returns the sink dimensions.
func (s *RGBASink) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// BlitRGB565 expands and copies a block of RGB565 pixels into the backing
// image. Rows falling outside the backing image are ignored.
func (s *RGBASink) BlitRGB565(x, y int, pixels []uint16, w, h int) {
	b := s.img.Bounds()
	for row := 0; row < h; row++ {
		dy := y + row
		if dy < 0 || dy >= b.Dy() {
			continue
		}
		for col := 0; col < w; col++ {
			dx := x + col
			if dx < 0 || dx >= b.Dx() {
				continue
			}
			r, g, bl := Expand565(pixels[row*w+col])
			off := s.img.PixOffset(dx, dy)
			s.img.Pix[off+0] = r
			s.img.Pix[off+1] = g
			s.img.Pix[off+2] = bl
			s.img.Pix[off+3] = 0xFF
		}
	}
}

// RGBA returns the backing image.
func (s *RGBASink) RGBA() *image.RGBA { return s.img }
