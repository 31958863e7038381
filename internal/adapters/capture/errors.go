package capture

import "errors"

// Sentinel errors for capture and replay.
var (
	ErrUnknownCodec = errors.New("unknown capture codec")
	ErrCreate       = errors.New("create capture")
	ErrOpen         = errors.New("open replay")
)
