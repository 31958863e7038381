// Package wire implements the scorer's binary row protocol: fixed-width
// scalars, base-128 VarUInt lengths and length-prefixed arrays of doubles.
//
// Reads never fail on a short stream. Each read reports a Status telling the
// caller whether the field was decoded, the stream ended cleanly, or the
// stream ended inside the field. Genuine I/O failures are kept aside and
// surfaced through Decoder.Err.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// MaxVarUIntBytes caps a VarUInt at 9 bytes, i.e. 63 bits of payload.
	MaxVarUIntBytes = 9
	// DefaultMaxArrayLen bounds a spatial array so a corrupt length cannot
	// trigger an unbounded allocation.
	DefaultMaxArrayLen = 1 << 22

	scalarSize = 8
)

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderByteOrder sets the byte order used for fixed-width scalars.
func WithDecoderByteOrder(e Engine) DecoderOption {
	return func(d *Decoder) {
		if e != nil {
			d.order = e
		}
	}
}

// WithMaxArrayLen bounds the element count accepted by Float64Array.
func WithMaxArrayLen(n uint64) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxArrayLen = n
		}
	}
}

// Decoder reads protocol values from a byte stream.
type Decoder struct {
	r           *bufio.Reader
	order       Engine
	maxArrayLen uint64
	buf         [scalarSize]byte
	read        int64
	err         error
}

// NewDecoder returns a Decoder reading from r. r is wrapped in a bufio.Reader
// unless it already is one; buffering never waits for more bytes than the
// pipe has available.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	d := &Decoder{
		r:           br,
		order:       DefaultEngine(),
		maxArrayLen: DefaultMaxArrayLen,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Uint64 reads one fixed-width unsigned integer. A truncated read yields 0.
func (d *Decoder) Uint64() (uint64, Status) {
	st := d.fill(d.buf[:])
	if st != StatusOK {
		return 0, st
	}
	return d.order.Uint64(d.buf[:]), StatusOK
}

// Float64 reads one fixed-width IEEE-754 double. A truncated read yields 0.
func (d *Decoder) Float64() (float64, Status) {
	bits, st := d.Uint64()
	if st != StatusOK {
		return 0, st
	}
	return math.Float64frombits(bits), StatusOK
}

// VarUInt reads a base-128 little-endian unsigned integer: the low 7 bits of
// byte i land at bit 7*i, a set high bit means another byte follows. Decoding
// stops at the first byte with the high bit clear or after MaxVarUIntBytes.
//
// If the stream ends before the first byte the result is (0, StatusEOF). If
// it ends after a continuation byte the partial value is returned with
// StatusTruncated; no error is raised.
func (d *Decoder) VarUInt() (uint64, Status) {
	var x uint64
	for i := 0; i < MaxVarUIntBytes; i++ {
		b, err := d.r.ReadByte()
		if err != nil {
			d.note(err)
			if i == 0 {
				return 0, StatusEOF
			}
			return x, StatusTruncated
		}
		d.read++
		x |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return x, StatusOK
		}
	}
	return x, StatusOK
}

// Float64Array reads a VarUInt element count followed by that many doubles
// as one contiguous block. The returned slice is never nil on StatusOK.
func (d *Decoder) Float64Array() ([]float64, Status, error) {
	n, st := d.VarUInt()
	if st != StatusOK {
		return nil, st, nil
	}
	if n > d.maxArrayLen {
		return nil, StatusOK, fmt.Errorf("%w: %d > %d", ErrArrayTooLong, n, d.maxArrayLen)
	}
	if n == 0 {
		return []float64{}, StatusOK, nil
	}

	block := make([]byte, n*scalarSize)
	if st := d.fill(block); st != StatusOK {
		// a missing block after a complete length is a cut row
		return nil, StatusTruncated, nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(d.order.Uint64(block[i*scalarSize:]))
	}
	return out, StatusOK, nil
}

// BytesRead returns the number of bytes consumed so far.
func (d *Decoder) BytesRead() int64 {
	return d.read
}

// Err returns the first read error that was not a plain end of stream.
func (d *Decoder) Err() error {
	return d.err
}

// fill reads exactly len(p) bytes. p is zeroed on a short read so a
// truncated scalar never leaks bytes from a previous row.
func (d *Decoder) fill(p []byte) Status {
	n, err := io.ReadFull(d.r, p)
	d.read += int64(n)
	if err == nil {
		return StatusOK
	}
	d.note(err)
	clear(p)
	if n == 0 {
		return StatusEOF
	}
	return StatusTruncated
}

func (d *Decoder) note(err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return
	}
	if d.err == nil {
		d.err = err
	}
}
