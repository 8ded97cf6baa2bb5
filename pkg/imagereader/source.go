package imagereader

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Opener resolves a name to an open, seekable byte source. A Reader holds
// one source open at a time; sources are closed before any operation
// returns, on every path.
type Opener interface {
	Open(name string) (io.ReadSeekCloser, error)
}

// DirOpener opens files relative to a base directory. Lookup falls back to a
// case-insensitive directory scan, so assets authored on case-insensitive
// filesystems keep working everywhere.
type DirOpener struct {
	Dir string
}

// Open opens the named file, trying an exact match first and then a
// case-insensitive search of the file's directory.
func (d DirOpener) Open(name string) (io.ReadSeekCloser, error) {
	path := name
	if d.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(d.Dir, name)
	}
	if f, err := os.Open(path); err == nil {
		return f, nil
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("imagereader: open %s: %w", name, err)
	}
	lower := strings.ToLower(base)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == lower {
			return os.Open(filepath.Join(dir, entry.Name()))
		}
	}
	return nil, fmt.Errorf("imagereader: open %s: %w", name, fs.ErrNotExist)
}

// FSOpener adapts an fs.FS (embed.FS, os.DirFS, test filesystems) to Opener.
// Files that do not support seeking are read fully and served from memory.
type FSOpener struct {
	FS fs.FS
}

// Open opens the named file from the wrapped filesystem.
func (o FSOpener) Open(name string) (io.ReadSeekCloser, error) {
	f, err := o.FS.Open(name)
	if err != nil {
		return nil, err
	}
	if rsc, ok := f.(io.ReadSeekCloser); ok {
		return rsc, nil
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}
	return bytesSource{Reader: bytes.NewReader(data)}, nil
}

// bytesSource is an in-memory ReadSeekCloser over a byte slice.
type bytesSource struct {
	*bytes.Reader
}

func (bytesSource) Close() error { return nil }
