package imagereader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
)

// memOpener serves named byte slices as seekable sources.
type memOpener map[string][]byte

func (m memOpener) Open(name string) (io.ReadSeekCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return bytesSource{Reader: bytes.NewReader(data)}, nil
}

// bmpSpec describes a synthetic BMP file to build for a test.
type bmpSpec struct {
	width       int
	height      int  // rows; stored height is negated when topDown
	topDown     bool
	depth       uint16
	planes      uint16
	compression uint32
	signature   uint16 // 0 means the valid 'BM' signature
	// pixel returns the (r, g, b) color at logical image coordinates,
	// row 0 being the top row. nil means all black.
	pixel func(x, y int) (byte, byte, byte)
}

// buildBMP serializes a 40-byte-DIB-header BMP with 24-bit pixel rows padded
// to a 4-byte boundary, in bottom-up storage order unless topDown is set.
func buildBMP(spec bmpSpec) []byte {
	const fileHeaderSize = 14
	const dibHeaderSize = 40

	depth := spec.depth
	if depth == 0 {
		depth = 24
	}
	planes := spec.planes
	if planes == 0 {
		planes = 1
	}
	signature := spec.signature
	if signature == 0 {
		signature = bmpSignature
	}

	stride := (int(depth)*spec.width + 31) / 32 * 4
	dataOffset := uint32(fileHeaderSize + dibHeaderSize)
	fileSize := dataOffset + uint32(stride*spec.height)

	storedHeight := int32(spec.height)
	if spec.topDown {
		storedHeight = -storedHeight
	}

	buf := &bytes.Buffer{}
	le := func(v any) {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			panic(fmt.Sprintf("buildBMP: %v", err))
		}
	}

	// File header
	le(signature)
	le(fileSize)
	le(uint32(0)) // reserved
	le(dataOffset)
	// DIB header (BITMAPINFOHEADER)
	le(uint32(dibHeaderSize))
	le(int32(spec.width))
	le(storedHeight)
	le(planes)
	le(depth)
	le(spec.compression)
	le(uint32(stride * spec.height)) // raw data size
	le(uint32(2835))                 // horizontal resolution
	le(uint32(2835))                 // vertical resolution
	le(uint32(0))                    // palette colors
	le(uint32(0))                    // important colors

	// Pixel rows. Bottom-up files store the last logical row first.
	pad := stride - spec.width*3
	for i := 0; i < spec.height; i++ {
		y := i
		if !spec.topDown {
			y = spec.height - 1 - i
		}
		for x := 0; x < spec.width; x++ {
			var r, g, b byte
			if spec.pixel != nil {
				r, g, b = spec.pixel(x, y)
			}
			buf.WriteByte(b)
			buf.WriteByte(g)
			buf.WriteByte(r)
		}
		for p := 0; p < pad; p++ {
			buf.WriteByte(0xAA) // padding; must never be read as pixel data
		}
	}
	return buf.Bytes()
}

// gradientPixel gives every coordinate a distinct (r, g, b) that survives
// the 5-6-5 quantization, so misplaced rows or columns are detectable.
func gradientPixel(x, y int) (byte, byte, byte) {
	return byte(x*8) & 0xF8, byte(y*4) & 0xFC, byte((x+y)*8) & 0xF8
}
