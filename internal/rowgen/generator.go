package rowgen

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/okian/rowscore/internal/adapters/capture"
	"github.com/okian/rowscore/internal/adapters/udf"
	"github.com/okian/rowscore/internal/adapters/wire"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/pkg/logger"
)

// Row profiles, chosen per row.
const (
	profileTypical = iota
	profileSparse
	profileDense
	profileDegenerate
	profileCount
)

const (
	seedMix        = 0x9e3779b97f4a7c15
	maxSpatialPts  = 16
	spatialJitter  = 0.05
	unknownTotalPc = 25
)

// Generate writes cfg.Rows synthetic rows of cfg.Mode to w.
func Generate(w io.Writer, cfg *Config) (int64, error) {
	if err := cfg.validate(); err != nil {
		return 0, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^seedMix))
	enc := wire.NewEncoder(w)
	schema := udf.Schema(cfg.Mode)

	for i := 0; i < cfg.Rows; i++ {
		if err := writeRow(enc, rng, cfg.Mode, schema); err != nil {
			return enc.BytesWritten(), fmt.Errorf("row %d: %w", i, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return enc.BytesWritten(), err
	}
	return enc.BytesWritten(), nil
}

// GenerateFile writes rows to cfg.Output, compressed by its extension.
func GenerateFile(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	out, err := capture.Create(cfg.Output)
	if err != nil {
		return nil, err
	}
	n, genErr := Generate(out, cfg)
	if err := out.Close(); genErr == nil {
		genErr = err
	}
	if genErr != nil {
		return nil, fmt.Errorf("generate %s: %w", cfg.Output, genErr)
	}

	stats.RowsGenerated = cfg.Rows
	stats.BytesGenerated = n
	stats.Digest = out.Sum64()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(ctx, "generated rows",
		logger.String("mode", cfg.Mode.String()),
		logger.Int("rows", cfg.Rows),
		logger.String("output", cfg.Output),
		logger.String("codec", out.Codec().String()),
		logger.String("xxhash", fmt.Sprintf("%016x", stats.Digest)),
	)
	return stats, nil
}

func writeRow(enc *wire.Encoder, rng *rand.Rand, mode types.Mode, schema []udf.Argument) error {
	if mode == types.ModeSpatial {
		lats, lons := spatialPoints(rng)
		if err := enc.Float64Array(lats); err != nil {
			return err
		}
		return enc.Float64Array(lons)
	}

	d := newDraw(rng)
	for _, arg := range schema {
		var err error
		switch arg.Type {
		case udf.TypeUInt64:
			err = enc.Uint64(d.count(arg.Name))
		case udf.TypeFloat64:
			err = enc.Float64(d.real(arg.Name))
		default:
			err = fmt.Errorf("unsupported argument type %s", arg.Type)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// draw holds the per-row choices that later fields depend on.
type draw struct {
	rng     *rand.Rand
	profile int
	pings   uint64
}

func newDraw(rng *rand.Rand) *draw {
	d := &draw{rng: rng, profile: rng.IntN(profileCount)}
	switch d.profile {
	case profileSparse:
		d.pings = rng.Uint64N(6)
	case profileDense:
		d.pings = 500 + rng.Uint64N(4500)
	case profileDegenerate:
		d.pings = 0
	default:
		d.pings = 10 + rng.Uint64N(490)
	}
	return d
}

func (d *draw) count(name string) uint64 {
	if d.profile == profileDegenerate {
		return 0
	}
	switch name {
	case "pings":
		return d.pings
	case "total_pings":
		if d.rng.IntN(100) < unknownTotalPc {
			return 0
		}
		return d.pings * (1 + d.rng.Uint64N(20))
	case "unique_days":
		if d.profile == profileSparse {
			return d.rng.Uint64N(3)
		}
		return 1 + d.rng.Uint64N(90)
	case "active_days_last_30d":
		return d.rng.Uint64N(31)
	default:
		return d.rng.Uint64N(100)
	}
}

func (d *draw) real(name string) float64 {
	if d.profile == profileDegenerate {
		return 0
	}
	switch name {
	case "std_geohash_m":
		// a few rows sit exactly on one geohash
		if d.rng.IntN(10) == 0 {
			return 0
		}
		return d.rng.Float64() * 250
	case "mean_time_diff":
		return d.rng.Float64() * 7200
	default:
		// ratios, entropies, stabilities and upstream scores
		return d.rng.Float64()
	}
}

func spatialPoints(rng *rand.Rand) ([]float64, []float64) {
	n := rng.IntN(maxSpatialPts + 1)
	m := n
	if rng.IntN(20) == 0 {
		// mismatched lengths score as zeros
		m = rng.IntN(maxSpatialPts + 1)
	}

	lat0 := rng.Float64()*120 - 60
	lon0 := rng.Float64()*340 - 170
	lats := make([]float64, n)
	for i := range lats {
		lats[i] = lat0 + (rng.Float64()*2-1)*spatialJitter
	}
	lons := make([]float64, m)
	for i := range lons {
		lons[i] = lon0 + (rng.Float64()*2-1)*spatialJitter
	}
	return lats, lons
}
