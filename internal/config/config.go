// Package config defines scorer configuration and how it is layered.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers an optional YAML file and ROWSCORE_ env vars on top.
// - Command-line flags are applied by the caller after Load.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Defaults.
const (
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultByteOrder   = "little"
	DefaultTruncation  = "zero_fill"
	DefaultMaxArrayLen = 1 << 22
)

var (
	logLevels   = []string{"debug", "info", "warn", "warning", "error"}
	logFormats  = []string{"text", "json"}
	byteOrders  = []string{"little", "le", "big", "be", "native"}
	truncations = []string{"zero_fill", "zerofill", "drop", "strict"}
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error. Logs go to stderr.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// ByteOrder of wire scalars: little, big or native.
	ByteOrder string `koanf:"byte_order"`

	// Truncation is the policy for rows cut mid-record: zero_fill, drop, strict.
	Truncation string `koanf:"truncation"`

	// MaxArrayLen caps spatial array lengths.
	MaxArrayLen uint64 `koanf:"max_array_len"`

	// CapturePath, when set, records raw input to this file.
	CapturePath string `koanf:"capture_path"`

	// MetricsPath, when set, receives a Prometheus textfile at exit.
	MetricsPath string `koanf:"metrics_path"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		ByteOrder:   DefaultByteOrder,
		Truncation:  DefaultTruncation,
		MaxArrayLen: DefaultMaxArrayLen,
	}
}

// Validate reports the first setting outside its allowed set.
func (c *Config) Validate() error {
	if !oneOf(c.LogLevel, logLevels) {
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if !oneOf(c.LogFormat, logFormats) {
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if !oneOf(c.ByteOrder, byteOrders) {
		return fmt.Errorf("%w: byte_order %q", ErrInvalidConfig, c.ByteOrder)
	}
	if !oneOf(c.Truncation, truncations) {
		return fmt.Errorf("%w: truncation %q", ErrInvalidConfig, c.Truncation)
	}
	if c.MaxArrayLen == 0 {
		return fmt.Errorf("%w: max_array_len must be positive", ErrInvalidConfig)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(strings.TrimSpace(v)))
}
