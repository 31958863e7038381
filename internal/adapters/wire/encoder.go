package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithEncoderByteOrder sets the byte order used for fixed-width scalars.
func WithEncoderByteOrder(e Engine) EncoderOption {
	return func(enc *Encoder) {
		if e != nil {
			enc.order = e
		}
	}
}

// Encoder writes fixed-width results. Values are buffered until Flush; the
// stream loop flushes after every row because the host blocks on each result
// before sending more input.
type Encoder struct {
	w       *bufio.Writer
	order   Engine
	scratch []byte
	written int64
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		w:       bufio.NewWriter(w),
		order:   DefaultEngine(),
		scratch: make([]byte, 0, scalarSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Uint64 appends one fixed-width unsigned integer.
func (e *Encoder) Uint64(v uint64) error {
	e.scratch = e.order.AppendUint64(e.scratch[:0], v)
	n, err := e.w.Write(e.scratch)
	e.written += int64(n)
	return err
}

// Float64 appends one fixed-width IEEE-754 double.
func (e *Encoder) Float64(v float64) error {
	return e.Uint64(math.Float64bits(v))
}

// Float64s appends each value in order.
func (e *Encoder) Float64s(vs ...float64) error {
	for _, v := range vs {
		if err := e.Float64(v); err != nil {
			return err
		}
	}
	return nil
}

// VarUInt appends a base-128 length prefix.
func (e *Encoder) VarUInt(v uint64) error {
	e.scratch = AppendVarUInt(e.scratch[:0], v)
	n, err := e.w.Write(e.scratch)
	e.written += int64(n)
	return err
}

// Float64Array appends a VarUInt count followed by the values.
func (e *Encoder) Float64Array(vs []float64) error {
	if err := e.VarUInt(uint64(len(vs))); err != nil {
		return err
	}
	return e.Float64s(vs...)
}

// Flush pushes buffered bytes to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// BytesWritten returns the number of bytes accepted so far, flushed or not.
func (e *Encoder) BytesWritten() int64 {
	return e.written
}

// AppendVarUInt appends v in base-128 little-endian form. Values up to 63
// bits fit in MaxVarUIntBytes and round-trip through Decoder.VarUInt.
func AppendVarUInt(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}
