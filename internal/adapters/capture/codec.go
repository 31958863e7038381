package capture

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is the compression applied to a capture file.
type Codec uint8

// Supported codecs.
const (
	CodecRaw Codec = iota
	CodecZstd
	CodecLZ4
	CodecS2
)

func (c Codec) String() string {
	switch c {
	case CodecRaw:
		return "raw"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	case CodecS2:
		return "s2"
	default:
		return fmt.Sprintf("codec(%d)", c)
	}
}

// ParseCodec maps a codec name to a Codec.
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "raw", "none":
		return CodecRaw, nil
	case "zstd", "zst":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	case "s2":
		return CodecS2, nil
	default:
		return CodecRaw, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// CodecFor picks the codec from a file extension. Unknown extensions are
// stored raw.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CodecZstd
	case ".lz4":
		return CodecLZ4
	case ".s2":
		return CodecS2
	default:
		return CodecRaw
	}
}

// NewWriter wraps w so bytes written are compressed with c. Closing the
// returned writer flushes the codec but leaves w open.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecRaw:
		return nopWriteCloser{w}, nil
	case CodecZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		return enc, nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecS2:
		return s2.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, c)
	}
}

// NewReader wraps r so reads return bytes decompressed with c.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecRaw:
		return io.NopCloser(r), nil
	case CodecZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecS2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
