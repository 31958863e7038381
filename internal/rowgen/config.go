// Package rowgen produces synthetic scorer input and checks the scorer
// against it in process.
package rowgen

import (
	"errors"
	"time"

	"github.com/okian/rowscore/internal/domain/types"
)

// Sentinel errors for generation and verification.
var (
	ErrInvalidConfig = errors.New("invalid rowgen config")
	ErrRowCount      = errors.New("unexpected result count")
	ErrOutOfRange    = errors.New("result out of range")
)

// Config holds configuration for a generation or verification run.
type Config struct {
	Mode   types.Mode // Mode whose rows are produced
	Rows   int        // Number of rows
	Seed   uint64     // PRNG seed; equal seeds give equal bytes
	Output string     // Output file for generate; codec follows the extension
}

// Stats holds run statistics.
type Stats struct {
	RowsGenerated  int
	BytesGenerated int64
	RowsScored     uint64
	Digest         uint64 // xxhash of the generated bytes
	Min            float64
	Max            float64
	Mean           float64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

func (c *Config) validate() error {
	if !c.Mode.Valid() {
		return errors.Join(ErrInvalidConfig, types.ErrUnknownMode)
	}
	if c.Rows < 0 {
		return errors.Join(ErrInvalidConfig, errors.New("rows must not be negative"))
	}
	return nil
}
