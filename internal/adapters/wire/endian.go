package wire

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Byte order names accepted by ParseByteOrder.
const (
	OrderLittle = "little"
	OrderBig    = "big"
	OrderNative = "native"
)

// Engine combines ByteOrder and AppendByteOrder so decoders can read fixed
// slices and encoders can append without a scratch copy.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// DefaultEngine is the byte order pinned by the wire contract.
func DefaultEngine() Engine {
	return binary.LittleEndian
}

// NativeEngine returns the build host's byte order. The original tool used
// it implicitly; it only interoperates with hosts of the same architecture.
func NativeEngine() Engine {
	return binary.NativeEndian
}

// IsNativeLittleEndian reports whether the build host is little-endian.
func IsNativeLittleEndian() bool {
	var probe [2]byte
	binary.NativeEndian.PutUint16(probe[:], 0x0100)
	return probe[0] == 0x00
}

// ParseByteOrder maps a configured name to an Engine. An empty name selects
// the default little-endian order.
func ParseByteOrder(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", OrderLittle, "le":
		return binary.LittleEndian, nil
	case OrderBig, "be":
		return binary.BigEndian, nil
	case OrderNative:
		return binary.NativeEndian, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownByteOrder, name)
	}
}
