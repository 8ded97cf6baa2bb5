package imagereader

// bmpSignature is the ASCII bytes 'B','M' read as a little-endian uint16.
const bmpSignature = 0x4D42

// bmpHeader holds the fields consumed from a BMP file header and DIB
// header. It is produced once per operation and consumed immediately.
type bmpHeader struct {
	dataOffset  uint32
	headerSize  uint32
	width       int
	height      int
	topDown     bool
	planes      uint16
	depth       uint16
	compression uint32
	colors      uint32
}

// readHeader parses the header from a source positioned at offset 0. It
// stops at the signature on a mismatch; otherwise the source is left at the
// start of the palette (when one exists).
func (r *Reader) readHeader() (bmpHeader, Result) {
	var h bmpHeader
	if r.readLE16() != bmpSignature {
		return h, ErrFormat
	}
	r.readLE32() // file size, ignored
	r.readLE32() // creator bytes, ignored
	h.dataOffset = r.readLE32()
	h.headerSize = r.readLE32()
	h.width = int(int32(r.readLE32()))
	h.height = int(int32(r.readLE32()))
	// A negative height is a top-down bitmap. Not canon but common.
	if h.height < 0 {
		h.height = -h.height
		h.topDown = true
	}
	h.planes = r.readLE16()
	h.depth = r.readLE16()
	// Compression and palette fields only exist past the legacy core header.
	if h.headerSize > 12 {
		h.compression = r.readLE32()
		r.readLE32() // raw bitmap data size, ignored
		r.readLE32() // horizontal resolution, ignored
		r.readLE32() // vertical resolution, ignored
		h.colors = r.readLE32()
		r.readLE32() // colors used, ignored
	}
	if h.colors == 0 && h.depth < 32 {
		h.colors = 1 << h.depth
	}
	return h, Success
}

// decodable gates the full pixel decode: only single-plane, uncompressed,
// 24-bit bitmaps with sane dimensions are handled. Dimension queries do not
// go through this check.
func (h bmpHeader) decodable() Result {
	if h.planes != 1 || h.compression != 0 {
		return ErrFormat
	}
	if h.depth != 24 {
		return ErrFormat
	}
	if h.width <= 0 || h.height <= 0 {
		return ErrFormat
	}
	return Success
}

// rowStride returns the byte length of one stored scanline. BMP rows are
// padded to a 4-byte boundary; the padding bytes are skipped, never decoded.
func (h bmpHeader) rowStride() int {
	return (int(h.depth)*h.width + 31) / 32 * 4
}
