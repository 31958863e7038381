// Package stream runs the per-row read, score, write, flush cycle of a scorer
// process.
//
// The host writes one row and blocks until it reads that row's result, so the
// loop flushes after every row. Rows are independent: a fresh zero record is
// decoded each time and nothing carries over between rows.
package stream

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/pkg/logger"
	"github.com/okian/rowscore/pkg/metrics"
)

// Recorder receives per-row observations. *metrics.Manager satisfies it.
type Recorder interface {
	RecordRow(mode string, d time.Duration)
	RecordTruncated(mode string)
	RecordDropped(mode string)
	RecordError(mode, kind string)
}

// StopReason tells why a run ended.
type StopReason uint8

// Stop reasons.
const (
	StopNone StopReason = iota
	StopEOF
	StopTruncated
	StopDropped
	StopCanceled
	StopError
)

func (s StopReason) String() string {
	switch s {
	case StopEOF:
		return "eof"
	case StopTruncated:
		return "truncated"
	case StopDropped:
		return "dropped"
	case StopCanceled:
		return "canceled"
	case StopError:
		return "error"
	default:
		return "none"
	}
}

// Summary describes a finished run.
type Summary struct {
	Mode         types.Mode
	Rows         uint64
	Truncated    uint64
	Dropped      uint64
	BytesRead    int64
	BytesWritten int64
	Reason       StopReason
}

// Loop scores rows of one mode.
type Loop struct {
	mode        types.Mode
	handle      rowHandler
	order       wire.Engine
	policy      Policy
	maxArrayLen uint64
	recorder    Recorder
	logger      logger.Logger
}

// New binds mode to its row handler.
func New(mode types.Mode, opts ...Option) (*Loop, error) {
	var h rowHandler
	switch mode {
	case types.ModePingsink:
		h = pingsinkRow
	case types.ModeHome:
		h = homeRow
	case types.ModeWork:
		h = workRow
	case types.ModeLeisure:
		h = leisureRow
	case types.ModeSpatial:
		h = spatialRow
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownMode, mode)
	}

	l := &Loop{
		mode:        mode,
		handle:      h,
		order:       wire.DefaultEngine(),
		policy:      PolicyZeroFill,
		maxArrayLen: wire.DefaultMaxArrayLen,
		recorder:    nopRecorder{},
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.Named("stream").With(logger.String("mode", mode.String()))

	return l, nil
}

// Mode returns the mode the loop scores.
func (l *Loop) Mode() types.Mode {
	return l.mode
}

// Run scores rows from r into w until input ends. ctx is checked between
// rows; a blocked read is only interrupted by the input closing.
func (l *Loop) Run(ctx context.Context, r io.Reader, w io.Writer) (Summary, error) {
	dec := wire.NewDecoder(r,
		wire.WithDecoderByteOrder(l.order),
		wire.WithMaxArrayLen(l.maxArrayLen),
	)
	enc := wire.NewEncoder(w, wire.WithEncoderByteOrder(l.order))

	sum := Summary{Mode: l.mode}
	err := l.loop(ctx, dec, enc, &sum)
	sum.BytesRead = dec.BytesRead()
	sum.BytesWritten = enc.BytesWritten()

	l.logger.Debug(ctx, "stream finished",
		logger.Uint64("rows", sum.Rows),
		logger.Uint64("truncated", sum.Truncated),
		logger.String("reason", sum.Reason.String()),
	)
	return sum, err
}

func (l *Loop) loop(ctx context.Context, dec *wire.Decoder, enc *wire.Encoder, sum *Summary) error {
	mode := l.mode.String()
	for {
		if err := ctx.Err(); err != nil {
			sum.Reason = StopCanceled
			l.recorder.RecordError(mode, metrics.KindCanceled)
			return fmt.Errorf("%w after %d rows: %w", ErrCanceled, sum.Rows, err)
		}

		start := time.Now()
		rw := l.handle(dec)

		if err := dec.Err(); err != nil {
			sum.Reason = StopError
			l.recorder.RecordError(mode, metrics.KindRead)
			return fmt.Errorf("%w: row %d: %w", ErrRead, sum.Rows, err)
		}
		if rw.err != nil {
			sum.Reason = StopError
			l.recorder.RecordError(mode, metrics.KindRead)
			return fmt.Errorf("row %d: %w", sum.Rows, rw.err)
		}

		switch {
		case rw.lead == wire.StatusEOF:
			sum.Reason = StopEOF
			return nil
		case rw.lead == wire.StatusTruncated || rw.abort:
			return l.truncatedEnd(ctx, sum)
		case rw.short:
			sum.Truncated++
			l.recorder.RecordTruncated(mode)
			switch l.policy {
			case PolicyStrict:
				sum.Reason = StopError
				l.recorder.RecordError(mode, metrics.KindTruncated)
				return fmt.Errorf("%w: row %d", ErrTruncatedRow, sum.Rows)
			case PolicyDrop:
				sum.Dropped++
				sum.Reason = StopDropped
				l.recorder.RecordDropped(mode)
				l.logger.Warn(ctx, "dropped truncated row", logger.Uint64("row", sum.Rows))
				return nil
			default:
				l.logger.Warn(ctx, "scoring zero-filled truncated row", logger.Uint64("row", sum.Rows))
			}
		}

		if err := enc.Float64s(rw.values[:rw.width]...); err != nil {
			return l.writeFailed(sum, err)
		}
		if err := enc.Flush(); err != nil {
			return l.writeFailed(sum, err)
		}

		sum.Rows++
		l.recorder.RecordRow(mode, time.Since(start))
	}
}

// truncatedEnd handles a row cut before anything could be scored.
func (l *Loop) truncatedEnd(ctx context.Context, sum *Summary) error {
	mode := l.mode.String()
	sum.Truncated++
	l.recorder.RecordTruncated(mode)
	if l.policy == PolicyStrict {
		sum.Reason = StopError
		l.recorder.RecordError(mode, metrics.KindTruncated)
		return fmt.Errorf("%w: row %d", ErrTruncatedRow, sum.Rows)
	}
	sum.Reason = StopTruncated
	l.logger.Debug(ctx, "input ended inside a row", logger.Uint64("row", sum.Rows))
	return nil
}

func (l *Loop) writeFailed(sum *Summary, err error) error {
	sum.Reason = StopError
	l.recorder.RecordError(l.mode.String(), metrics.KindWrite)
	return fmt.Errorf("%w: row %d: %w", ErrWrite, sum.Rows, err)
}

type nopRecorder struct{}

func (nopRecorder) RecordRow(string, time.Duration) {}
func (nopRecorder) RecordTruncated(string)          {}
func (nopRecorder) RecordDropped(string)            {}
func (nopRecorder) RecordError(string, string)      {}
