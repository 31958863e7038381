package wire

import "errors"

// Sentinel errors for the wire codec.
var (
	ErrArrayTooLong     = errors.New("array length exceeds limit")
	ErrUnknownByteOrder = errors.New("unknown byte order")
)
