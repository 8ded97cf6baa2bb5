package canvas

import "fmt"

// Format identifies what, if anything, an Image currently holds.
type Format int

const (
	// FormatNone means no image is loaded; dimension queries return 0.
	FormatNone Format = iota
	// FormatRGB16 means the image holds RGB565 canvases.
	FormatRGB16
)

// Default segment geometry, matching the loader's historical limits: images
// up to DefaultMaxSegments*DefaultSegmentHeight rows fit without clipping.
const (
	DefaultSegmentHeight = 20
	DefaultMaxSegments   = 12
)

// AllocOptions controls how Image.Allocate splits an image into segments.
// Zero values fall back to the package defaults; a nil Alloc uses New.
type AllocOptions struct {
	SegmentHeight int
	MaxSegments   int
	Alloc         Allocator
}

// Image owns an ordered sequence of canvases that together hold one decoded
// image, top to bottom. The zero value is an empty image.
type Image struct {
	w, h      int
	segHeight int
	format    Format
	segments  []*Canvas
}

// Width returns the image width in pixels, or 0 if no image is loaded.
func (img *Image) Width() int {
	if img.format == FormatRGB16 {
		return img.w
	}
	return 0
}

// Height returns the image height in pixels, or 0 if no image is loaded.
func (img *Image) Height() int {
	if img.format == FormatRGB16 {
		return img.h
	}
	return 0
}

// Format returns the current image format.
func (img *Image) Format() Format { return img.format }

// Segments returns the owned canvas sequence, top to bottom. The last
// segment may be shorter than the others.
func (img *Image) Segments() []*Canvas { return img.segments }

// Reset releases all owned segments and returns the image to the empty
// state. Loading always resets first so a reused handle never leaks or
// reports stale dimensions.
func (img *Image) Reset() {
	img.segments = nil
	img.w, img.h = 0, 0
	img.segHeight = 0
	img.format = FormatNone
}

// Allocate sizes the image for w x h pixels and allocates its segments, each
// segHeight rows except for a possibly shorter last one. The remaining-row
// count is decremented by the fixed segment height every iteration, so the
// segment count comes out to ceil(h/segHeight). At most MaxSegments segments
// are allocated; a taller image is clipped to that bound (Clipped reports
// this). If any allocation fails, everything allocated by this call is
// released, the image stays empty, and the error is returned.
func (img *Image) Allocate(w, h int, opts AllocOptions) error {
	img.Reset()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("canvas: invalid image dimensions %dx%d", w, h)
	}
	segHeight := opts.SegmentHeight
	if segHeight <= 0 {
		segHeight = DefaultSegmentHeight
	}
	maxSegments := opts.MaxSegments
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}
	alloc := opts.Alloc
	if alloc == nil {
		alloc = New
	}

	remaining := h
	for i := 0; remaining > 0 && i < maxSegments; i++ {
		ch := remaining
		if ch > segHeight {
			ch = segHeight
		}
		remaining -= segHeight
		c, err := alloc(w, ch)
		if err != nil {
			img.Reset()
			return fmt.Errorf("canvas: segment %d allocation failed: %w", i, err)
		}
		img.segments = append(img.segments, c)
	}

	img.w, img.h = w, h
	img.segHeight = segHeight
	img.format = FormatRGB16
	return nil
}

// Clipped reports whether the allocated segments cover fewer rows than the
// image height (the image exceeded the segment-count bound).
func (img *Image) Clipped() bool {
	if img.format != FormatRGB16 {
		return false
	}
	return len(img.segments)*img.segHeight < img.h
}

// Draw blits each segment to the sink in order, starting at (x, y) and
// stepping down by the fixed segment height between segments. The final
// stacking matches the decode order even when the last segment is short.
func (img *Image) Draw(sink DisplaySink, x, y int) {
	if img.format != FormatRGB16 {
		return
	}
	for _, c := range img.segments {
		sink.BlitRGB565(x, y, c.Buffer(), c.Width(), c.Height())
		y += img.segHeight
	}
}

// RowWriter returns a writer that lays pixels into the image's segments
// sequentially, rolling over from one segment to the next as each fills.
func (img *Image) RowWriter() *RowWriter {
	return &RowWriter{segments: img.segments}
}

// RowWriter appends RGB565 pixels across an image's segments in decode
// order. It is only valid for the load that created it.
type RowWriter struct {
	segments []*Canvas
	idx      int
	off      int
}

// WriteRow appends one scanline. When the current segment fills, writing
// continues in the next one; once past the last segment, remaining pixels
// are dropped (a defensive bound, not reachable when the segment accounting
// covers the full height).
func (w *RowWriter) WriteRow(pixels []uint16) {
	for len(pixels) > 0 && w.idx < len(w.segments) {
		buf := w.segments[w.idx].Buffer()
		n := copy(buf[w.off:], pixels)
		w.off += n
		pixels = pixels[n:]
		if w.off >= len(buf) {
			w.off = 0
			w.idx++
		}
	}
}

// Done reports whether the writer has advanced past the last segment.
func (w *RowWriter) Done() bool { return w.idx >= len(w.segments) }
