package wire

// Status is the outcome of a single field read.
type Status uint8

const (
	// StatusOK means the field was fully decoded.
	StatusOK Status = iota
	// StatusEOF means the stream ended cleanly before the field started.
	StatusEOF
	// StatusTruncated means the stream ended inside the field.
	StatusTruncated
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEOF:
		return "eof"
	case StatusTruncated:
		return "truncated"
	default:
		return "invalid"
	}
}

// Underrun reports whether the read came up short, cleanly or not.
func (s Status) Underrun() bool {
	return s != StatusOK
}
