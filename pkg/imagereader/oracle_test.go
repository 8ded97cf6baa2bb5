package imagereader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/zurustar/bmp-canvas/pkg/canvas"
)

// These tests cross-check the decoder against an independently produced BMP:
// images encoded by golang.org/x/image/bmp (24-bit for opaque sources) must
// decode to the 5-6-5 packing of the colors that went in.

func encodeOracleBMP(t *testing.T, width, height int, at func(x, y int) color.NRGBA) []byte {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src.SetNRGBA(x, y, at(x, y))
		}
	}
	if !src.Opaque() {
		t.Fatal("oracle source must be opaque to encode as 24-bit")
	}
	buf := &bytes.Buffer{}
	if err := bmp.Encode(buf, src); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	return buf.Bytes()
}

func oracleColor(x, y int) color.NRGBA {
	return color.NRGBA{
		R: byte(x*37 + y*11),
		G: byte(x*7 + y*53),
		B: byte(x*91 + y*3),
		A: 0xFF,
	}
}

func TestLoadBMP_AgainstXImageEncoder(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 5}, {16, 16}, {33, 7}, {250, 3}} {
		width, height := size[0], size[1]
		t.Run(fmt.Sprintf("%dx%d", width, height), func(t *testing.T) {
			data := encodeOracleBMP(t, width, height, oracleColor)
			r := New(memOpener{"img.bmp": data}, WithSegmentHeight(4), WithMaxSegments(10000))

			var img canvas.Image
			if res := r.LoadBMP("img.bmp", &img); res != Success {
				t.Fatalf("LoadBMP = %v, want Success", res)
			}
			if img.Width() != width || img.Height() != height {
				t.Fatalf("dimensions = %dx%d, want %dx%d",
					img.Width(), img.Height(), width, height)
			}
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					c := oracleColor(x, y)
					want := canvas.RGB565(c.R, c.G, c.B)
					if got := pixelAt(&img, x, y); got != want {
						t.Fatalf("pixel (%d, %d) = %#04x, want %#04x", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestDimensions_AgainstXImageEncoder(t *testing.T) {
	data := encodeOracleBMP(t, 41, 23, oracleColor)
	r := New(memOpener{"img.bmp": data})
	w, h, res := r.Dimensions("img.bmp")
	if res != Success || w != 41 || h != 23 {
		t.Errorf("Dimensions = (%d, %d, %v), want (41, 23, Success)", w, h, res)
	}
}
