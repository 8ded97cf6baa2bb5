// Package imagereader decodes uncompressed 24-bit Windows BMP files from a
// seekable byte source into segmented RGB565 canvases (for later drawing) or
// directly onto a display sink, streaming each scanline through a small
// bounded scratch buffer so that memory use stays independent of image size.
package imagereader

// Result is the outcome of a top-level load, draw or query operation.
// Failures are reported as values, never as panics.
type Result int

const (
	// Success means the operation completed (a fully clipped-off-screen
	// draw also counts as Success).
	Success Result = iota
	// ErrFileNotFound means the source file could not be opened.
	ErrFileNotFound
	// ErrFormat means the file is not a BMP variant this loader handles.
	ErrFormat
	// ErrAlloc means a canvas segment could not be allocated.
	ErrAlloc
)

// Message returns the fixed human-readable status text for the result.
func (r Result) Message() string {
	switch r {
	case Success:
		return "Success!"
	case ErrFileNotFound:
		return "File not found."
	case ErrFormat:
		return "Not a supported BMP variant."
	case ErrAlloc:
		return "Canvas allocation failed (insufficient memory)."
	}
	return "Unknown result."
}

func (r Result) String() string { return r.Message() }
