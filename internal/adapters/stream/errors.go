package stream

import "errors"

// Sentinel errors for the stream loop.
var (
	ErrTruncatedRow  = errors.New("row truncated mid-record")
	ErrUnknownPolicy = errors.New("unknown truncation policy")
	ErrRead          = errors.New("read input")
	ErrWrite         = errors.New("write output")
	ErrCanceled      = errors.New("stream canceled")
)
