package stream

import (
	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/pkg/logger"
)

// Option applies a configuration option to the Loop.
type Option func(*Loop)

// WithByteOrder sets the byte order for both input and output scalars.
func WithByteOrder(e wire.Engine) Option {
	return func(l *Loop) {
		if e != nil {
			l.order = e
		}
	}
}

// WithPolicy sets the truncation policy.
func WithPolicy(p Policy) Option {
	return func(l *Loop) {
		l.policy = p
	}
}

// WithMaxArrayLen bounds spatial array lengths.
func WithMaxArrayLen(n uint64) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxArrayLen = n
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loop) {
		if lg != nil {
			l.logger = lg
		}
	}
}
