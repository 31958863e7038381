// Package service wires configuration, logging, metrics, capture and the
// stream loop into a single scorer run.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rowscore/internal/adapters/capture"
	"github.com/okian/rowscore/internal/adapters/stream"
	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/internal/config"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/pkg/logger"
	"github.com/okian/rowscore/pkg/metrics"
)

// Service runs scorer streams.
type Service struct {
	cfg        *config.Config
	metrics    *metrics.Manager
	replayPath string
	now        func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. Defaults are used when unset.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithReplay reads input from a capture file instead of the given reader.
func WithReplay(path string) Option {
	return func(s *Service) {
		s.replayPath = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for the run summary.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg: config.New(),
		now: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metrics.NewManager()
	}
	return s
}

// Metrics returns the manager the service records into.
func (s *Service) Metrics() *metrics.Manager {
	return s.metrics
}

// Run scores mode rows from in into out until input ends, then exports
// metrics if a textfile path is configured.
func (s *Service) Run(ctx context.Context, mode types.Mode, in io.Reader, out io.Writer) (sum stream.Summary, err error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	log := s.logger.Named("service").With(
		logger.String("run_id", uuid.NewString()),
		logger.String("mode", mode.String()),
	)

	order, err := wire.ParseByteOrder(s.cfg.ByteOrder)
	if err != nil {
		return sum, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	policy, err := stream.ParsePolicy(s.cfg.Truncation)
	if err != nil {
		return sum, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	if strings.EqualFold(s.cfg.ByteOrder, wire.OrderNative) {
		log.Debug(ctx, "using host byte order", logger.Any("little_endian", wire.IsNativeLittleEndian()))
	}

	if s.replayPath != "" {
		replay, openErr := capture.Open(s.replayPath)
		if openErr != nil {
			return sum, openErr
		}
		defer func() {
			log.Info(ctx, "replay finished",
				logger.String("path", replay.Path()),
				logger.String("codec", replay.Codec().String()),
				logger.Any("bytes", replay.Bytes()),
				logger.String("xxhash", fmt.Sprintf("%016x", replay.Sum64())),
			)
			err = errors.Join(err, replay.Close())
		}()
		in = replay
	}

	if s.cfg.CapturePath != "" {
		rec, createErr := capture.Create(s.cfg.CapturePath)
		if createErr != nil {
			return sum, createErr
		}
		defer func() {
			err = errors.Join(err, rec.Close())
			log.Info(ctx, "capture written",
				logger.String("path", rec.Path()),
				logger.String("codec", rec.Codec().String()),
				logger.Any("bytes", rec.Bytes()),
				logger.String("xxhash", fmt.Sprintf("%016x", rec.Sum64())),
			)
		}()
		in = rec.Tee(in)
	}

	loop, err := stream.New(mode,
		stream.WithByteOrder(order),
		stream.WithPolicy(policy),
		stream.WithMaxArrayLen(s.cfg.MaxArrayLen),
		stream.WithRecorder(s.metrics),
		stream.WithLogger(log),
	)
	if err != nil {
		return sum, err
	}

	sum, err = loop.Run(ctx, in, out)
	s.metrics.AddBytesRead(sum.BytesRead)
	s.metrics.AddBytesWritten(sum.BytesWritten)
	s.metrics.RecordRun(mode.String(), sum.Rows, s.now())

	if exportErr := s.metrics.WriteTextfile(s.cfg.MetricsPath); exportErr != nil {
		// logged only, rows are already written
		log.Warn(ctx, "metrics export failed", logger.Error(exportErr))
	}

	if err != nil {
		log.Error(ctx, "stream failed",
			logger.Uint64("rows", sum.Rows),
			logger.String("reason", sum.Reason.String()),
			logger.Error(err),
		)
		return sum, err
	}

	log.Info(ctx, "stream complete",
		logger.Uint64("rows", sum.Rows),
		logger.Uint64("truncated", sum.Truncated),
		logger.Uint64("dropped", sum.Dropped),
		logger.String("reason", sum.Reason.String()),
	)
	return sum, nil
}
