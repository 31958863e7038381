// Package capture records the raw input of a scorer run to a file and plays
// it back later. Captures are compressed according to the file extension
// (.zst, .lz4, .s2, anything else raw) and carry an xxhash digest of the
// uncompressed bytes so a replay can be matched to its recording.
package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Writer stores bytes to a capture file.
type Writer struct {
	path   string
	codec  Codec
	file   *os.File
	zw     io.WriteCloser
	digest *xxhash.Digest
	n      int64
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Writer, error) {
	codec := CodecFor(path)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}
	zw, err := NewWriter(f, codec)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}
	return &Writer{
		path:   path,
		codec:  codec,
		file:   f,
		zw:     zw,
		digest: xxhash.New(),
	}, nil
}

// Write compresses p into the capture file.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.zw.Write(p)
	_, _ = w.digest.Write(p[:n])
	w.n += int64(n)
	return n, err
}

// Tee returns a reader that copies everything read from src into the
// capture. A capture write failure surfaces as a read error.
func (w *Writer) Tee(src io.Reader) io.Reader {
	return io.TeeReader(src, w)
}

// Close flushes the codec and closes the file.
func (w *Writer) Close() error {
	return errors.Join(w.zw.Close(), w.file.Close())
}

// Path returns the capture file path.
func (w *Writer) Path() string { return w.path }

// Codec returns the codec chosen for the file.
func (w *Writer) Codec() Codec { return w.codec }

// Bytes returns the number of uncompressed bytes captured.
func (w *Writer) Bytes() int64 { return w.n }

// Sum64 returns the xxhash of the uncompressed bytes captured so far.
func (w *Writer) Sum64() uint64 { return w.digest.Sum64() }

// Reader plays a capture file back.
type Reader struct {
	path   string
	codec  Codec
	file   *os.File
	zr     io.ReadCloser
	digest *xxhash.Digest
	n      int64
}

// Open opens a capture file for replay.
func Open(path string) (*Reader, error) {
	codec := CodecFor(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	zr, err := NewReader(f, codec)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return &Reader{
		path:   path,
		codec:  codec,
		file:   f,
		zr:     zr,
		digest: xxhash.New(),
	}, nil
}

// Read returns decompressed capture bytes.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.zr.Read(p)
	_, _ = r.digest.Write(p[:n])
	r.n += int64(n)
	return n, err
}

// Close releases the codec and the file.
func (r *Reader) Close() error {
	return errors.Join(r.zr.Close(), r.file.Close())
}

// Path returns the capture file path.
func (r *Reader) Path() string { return r.path }

// Codec returns the codec chosen for the file.
func (r *Reader) Codec() Codec { return r.codec }

// Bytes returns the number of uncompressed bytes replayed so far.
func (r *Reader) Bytes() int64 { return r.n }

// Sum64 returns the xxhash of the bytes replayed so far.
func (r *Reader) Sum64() uint64 { return r.digest.Sum64() }
