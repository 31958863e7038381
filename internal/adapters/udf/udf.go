// Package udf renders ClickHouse executable user-defined function
// definitions for every scorer mode.
package udf

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/okian/rowscore/internal/domain/types"
)

const (
	defaultCommand  = "rowscore"
	formatRowBinary = "RowBinary"
	typeExecutable  = "executable"
)

// Function is one entry of the ClickHouse functions config.
type Function struct {
	Type       string     `yaml:"type"`
	Name       string     `yaml:"name"`
	ReturnType string     `yaml:"return_type"`
	Arguments  []Argument `yaml:"argument"`
	Format     string     `yaml:"format"`
	Command    string     `yaml:"command"`
}

// Document is the top level of a ClickHouse *_function.yaml file.
type Document struct {
	Functions struct {
		Function []Function `yaml:"function"`
	} `yaml:"functions"`
}

// Option configures the rendered definitions.
type Option func(*options)

type options struct {
	command string
	suffix  string
	flags   string
}

// WithCommand sets the executable invoked by ClickHouse, relative to its
// user_scripts directory.
func WithCommand(cmd string) Option {
	return func(o *options) {
		if cmd != "" {
			o.command = cmd
		}
	}
}

// WithSuffix appends a suffix to every function name, e.g. "_go" to
// register alongside an existing implementation.
func WithSuffix(s string) Option {
	return func(o *options) {
		o.suffix = s
	}
}

// WithFlags inserts extra command-line flags before the mode argument.
func WithFlags(flags string) Option {
	return func(o *options) {
		o.flags = flags
	}
}

// Functions builds one definition per mode.
func Functions(opts ...Option) []Function {
	o := options{command: defaultCommand}
	for _, opt := range opts {
		opt(&o)
	}

	out := make([]Function, 0, len(types.Modes()))
	for _, m := range types.Modes() {
		cmd := o.command
		if o.flags != "" {
			cmd += " " + o.flags
		}
		out = append(out, Function{
			Type:       typeExecutable,
			Name:       FunctionName(m) + o.suffix,
			ReturnType: ReturnType(m),
			Arguments:  Schema(m),
			Format:     formatRowBinary,
			Command:    cmd + " " + m.String(),
		})
	}
	return out
}

// Write renders the definitions as YAML.
func Write(w io.Writer, opts ...Option) error {
	var doc Document
	doc.Functions.Function = Functions(opts...)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode udf config: %w", err)
	}
	return enc.Close()
}
