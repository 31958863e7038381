package rowgen

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/rowscore/internal/adapters/stream"
	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/pkg/logger"
)

// Verify generates rows, scores them through the stream loop in process and
// checks one result per row with every score in range.
func Verify(ctx context.Context, cfg *Config, opts ...stream.Option) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	var in bytes.Buffer
	n, err := Generate(&in, cfg)
	if err != nil {
		return nil, err
	}
	stats.RowsGenerated = cfg.Rows
	stats.BytesGenerated = n
	stats.Digest = xxhash.Sum64(in.Bytes())

	loop, err := stream.New(cfg.Mode, opts...)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	sum, err := loop.Run(ctx, &in, &out)
	if err != nil {
		return nil, fmt.Errorf("score rows: %w", err)
	}
	stats.RowsScored = sum.Rows

	if sum.Rows != uint64(cfg.Rows) {
		return stats, fmt.Errorf("%w: scored %d of %d rows", ErrRowCount, sum.Rows, cfg.Rows)
	}
	width := cfg.Mode.OutputWidth()
	if want := cfg.Rows * width * 8; out.Len() != want {
		return stats, fmt.Errorf("%w: %d bytes written, want %d", ErrRowCount, out.Len(), want)
	}

	if err := checkResults(&out, cfg.Mode, cfg.Rows, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Get().Info(ctx, "verified rows",
		logger.String("mode", cfg.Mode.String()),
		logger.Uint64("rows", stats.RowsScored),
		logger.Float64("min", stats.Min),
		logger.Float64("max", stats.Max),
		logger.Float64("mean", stats.Mean),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}

// checkResults validates every row result. Min, Max and Mean cover the
// score for scalar modes and the dispersion for spatial.
func checkResults(out *bytes.Buffer, mode types.Mode, rows int, stats *Stats) error {
	d := wire.NewDecoder(out)
	stats.Min, stats.Max = math.Inf(1), math.Inf(-1)
	total := 0.0

	for i := 0; i < rows; i++ {
		var v float64
		if mode == types.ModeSpatial {
			lat, _ := d.Float64()
			_, _ = d.Float64()
			v, _ = d.Float64()
			if math.IsNaN(lat) || lat < -90 || lat > 90 || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("%w: row %d: lat %v dispersion %v", ErrOutOfRange, i, lat, v)
			}
		} else {
			v, _ = d.Float64()
			if math.IsNaN(v) || v < 0 || v > 1 {
				return fmt.Errorf("%w: row %d: score %v", ErrOutOfRange, i, v)
			}
		}
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		total += v
	}

	if rows == 0 {
		stats.Min, stats.Max = 0, 0
		return nil
	}
	stats.Mean = total / float64(rows)
	return nil
}
