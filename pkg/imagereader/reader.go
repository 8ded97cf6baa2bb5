package imagereader

import (
	"io"
	"log/slog"
	"sync"

	"github.com/zurustar/bmp-canvas/pkg/canvas"
)

// Default decode geometry. ScratchPixels bounds the per-call scratch buffer
// at 3 bytes per source pixel; there is no point in it exceeding the widest
// row a sink can take, since buffers are invalidated per scanline anyway.
const (
	DefaultScratchPixels = 200
)

// Reader loads BMP files obtained through an Opener. A Reader holds at most
// one source open at a time and allows one operation in flight; concurrent
// calls from multiple goroutines serialize on an internal mutex.
type Reader struct {
	opener Opener
	log    *slog.Logger

	segmentHeight int
	maxSegments   int
	scratchPixels int
	alloc         canvas.Allocator

	mu  sync.Mutex
	src io.ReadSeekCloser
	pos int64
}

// Option configures a Reader.
type Option func(*Reader)

// WithSegmentHeight sets the fixed row capacity of each canvas segment.
func WithSegmentHeight(h int) Option {
	return func(r *Reader) { r.segmentHeight = h }
}

// WithMaxSegments sets the segment-count bound. Images taller than
// maxSegments*segmentHeight rows are clipped to that many rows; LoadBMP
// still reports Success and logs a warning. Known limitation carried over
// from the fixed canvas array of the original loader.
func WithMaxSegments(n int) Option {
	return func(r *Reader) { r.maxSegments = n }
}

// WithScratchPixels sets the scratch buffer capacity in source pixels.
func WithScratchPixels(n int) Option {
	return func(r *Reader) { r.scratchPixels = n }
}

// WithAllocator overrides the canvas allocator, mainly so tests can inject
// allocation failures.
func WithAllocator(alloc canvas.Allocator) Option {
	return func(r *Reader) { r.alloc = alloc }
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reader) { r.log = log }
}

// New creates a Reader over the given source opener.
func New(opener Opener, opts ...Option) *Reader {
	r := &Reader{
		opener:        opener,
		log:           slog.Default(),
		segmentHeight: canvas.DefaultSegmentHeight,
		maxSegments:   canvas.DefaultMaxSegments,
		scratchPixels: DefaultScratchPixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.segmentHeight <= 0 {
		r.segmentHeight = canvas.DefaultSegmentHeight
	}
	if r.maxSegments <= 0 {
		r.maxSegments = canvas.DefaultMaxSegments
	}
	if r.scratchPixels <= 0 {
		r.scratchPixels = DefaultScratchPixels
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// LoadBMP decodes the named BMP file into img. Any previous contents of img
// are released first, so a failed load leaves img empty rather than stale.
func (r *Reader) LoadBMP(name string, img *canvas.Image) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	img.Reset()
	if res := r.open(name); res != Success {
		return res
	}
	defer r.close()

	hdr, res := r.readHeader()
	if res != Success {
		return res
	}
	if res := hdr.decodable(); res != Success {
		return res
	}

	err := img.Allocate(hdr.width, hdr.height, canvas.AllocOptions{
		SegmentHeight: r.segmentHeight,
		MaxSegments:   r.maxSegments,
		Alloc:         r.alloc,
	})
	if err != nil {
		r.log.Warn("canvas allocation failed", "file", name, "error", err)
		return ErrAlloc
	}
	if img.Clipped() {
		r.log.Warn("image exceeds canvas capacity, clipping",
			"file", name,
			"height", hdr.height,
			"maxHeight", r.maxSegments*r.segmentHeight)
	}

	w := img.RowWriter()
	return r.streamRows(hdr, region{w: hdr.width, h: hdr.height}, rowFunc(func(_ int, pixels []uint16) bool {
		w.WriteRow(pixels)
		return !w.Done()
	}))
}

// DrawBMP decodes the named BMP file straight onto a display sink with its
// top-left corner at (x, y), clipping against the sink bounds. A draw that
// falls entirely off the sink is a Success without any decoding.
func (r *Reader) DrawBMP(name string, sink canvas.DisplaySink, x, y int) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res := r.open(name); res != Success {
		return res
	}
	defer r.close()

	hdr, res := r.readHeader()
	if res != Success {
		return res
	}
	if res := hdr.decodable(); res != Success {
		return res
	}

	reg, x, y, visible := clip(hdr, sink, x, y)
	if !visible {
		return Success
	}
	return r.streamRows(hdr, reg, rowFunc(func(row int, pixels []uint16) bool {
		sink.BlitRGB565(x, y+row, pixels, len(pixels), 1)
		return true
	}))
}

// Dimensions reports the pixel dimensions of the named BMP file without
// decoding it. It succeeds for any file with a valid BMP signature, even
// when the depth or compression rules out a full decode.
func (r *Reader) Dimensions(name string) (width, height int, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res := r.open(name); res != Success {
		return 0, 0, res
	}
	defer r.close()

	if r.readLE16() != bmpSignature {
		return 0, 0, ErrFormat
	}
	r.skip(16) // file size, reserved, data offset, header size
	width = int(int32(r.readLE32()))
	height = int(int32(r.readLE32()))
	if height < 0 {
		height = -height
	}
	return width, height, Success
}

// open resolves the name through the Opener. Any open failure maps to
// ErrFileNotFound.
func (r *Reader) open(name string) Result {
	src, err := r.opener.Open(name)
	if err != nil {
		return ErrFileNotFound
	}
	r.src = src
	r.pos = 0
	return Success
}

func (r *Reader) close() {
	if r.src != nil {
		r.src.Close()
		r.src = nil
	}
}

// seek repositions the source. Callers compare against r.pos first to avoid
// redundant seeks across sequential rows.
func (r *Reader) seek(pos int64) {
	r.src.Seek(pos, io.SeekStart)
	r.pos = pos
}

func (r *Reader) skip(n int64) {
	r.seek(r.pos + n)
}

// fill reads as much of buf as the source can provide, zeroing the
// remainder. Reads past end of file therefore yield zero-filled values,
// which the signature and format checks reject upstream.
func (r *Reader) fill(buf []byte) {
	n, _ := io.ReadFull(r.src, buf)
	r.pos += int64(n)
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
}

// readLE16 reads the next two bytes as a little-endian uint16. BMP files are
// little-endian throughout; composing from bytes keeps one code path on
// every host architecture.
func (r *Reader) readLE16() uint16 {
	var b [2]byte
	r.fill(b[:])
	return uint16(b[0]) | uint16(b[1])<<8
}

// readLE32 reads the next four bytes as a little-endian uint32.
func (r *Reader) readLE32() uint32 {
	var b [4]byte
	r.fill(b[:])
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
