package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/okian/rowscore/internal/adapters/udf"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/internal/rowgen"
	"github.com/okian/rowscore/pkg/logger"
)

// Default configuration constants.
const (
	defaultRows = 10_000
	defaultSeed = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := newCommand(stdout, stderr).Run(ctx, args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			_, _ = fmt.Fprintln(stderr, exitErr.Error())
			return exitErr.ExitCode()
		}
		_, _ = fmt.Fprintln(stderr, "rowgen:", err)
		return 1
	}
	return 0
}

// rowFlags returns fresh flag values; flags keep parse state and must not be
// shared between commands.
func rowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "mode",
			Usage:    "row shape [" + strings.Join(types.Names(), ", ") + "]",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "rows",
			Usage: "number of rows",
			Value: defaultRows,
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "generator seed",
			Value: defaultSeed,
		},
	}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:            "rowgen",
		Usage:           "generate and verify synthetic rowscore input",
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		ExitErrHandler:  func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "log at info level"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := logger.InitWithWriter(stderr, logger.FormatText); err != nil {
				return ctx, err
			}
			if cmd.Bool("verbose") {
				return ctx, logger.SetLevelString("info")
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "write synthetic rows to a file (.zst, .lz4, .s2 or raw)",
				Flags: append(rowFlags(),
					&cli.StringFlag{Name: "output", Usage: "output file", Required: true},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := configFrom(cmd)
					if err != nil {
						return err
					}
					cfg.Output = cmd.String("output")
					stats, err := rowgen.GenerateFile(ctx, cfg)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					_, err = fmt.Fprintf(stdout, "%d rows, %d bytes, xxhash %016x\n",
						stats.RowsGenerated, stats.BytesGenerated, stats.Digest)
					return err
				},
			},
			{
				Name:  "verify",
				Usage: "score synthetic rows in process and check every result",
				Flags: rowFlags(),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := configFrom(cmd)
					if err != nil {
						return err
					}
					stats, err := rowgen.Verify(ctx, cfg)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					_, err = fmt.Fprintf(stdout, "%s: %d rows ok, min %.4f max %.4f mean %.4f in %s\n",
						cfg.Mode, stats.RowsScored, stats.Min, stats.Max, stats.Mean, stats.Duration)
					return err
				},
			},
			{
				Name:  "udf-config",
				Usage: "print ClickHouse executable UDF definitions",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "command", Usage: "scorer command as seen by ClickHouse", Value: "rowscore"},
					&cli.StringFlag{Name: "suffix", Usage: "suffix appended to every function name"},
					&cli.StringFlag{Name: "flags", Usage: "extra scorer flags placed before the mode"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return udf.Write(stdout,
						udf.WithCommand(cmd.String("command")),
						udf.WithSuffix(cmd.String("suffix")),
						udf.WithFlags(cmd.String("flags")),
					)
				},
			},
		},
	}
}

func configFrom(cmd *cli.Command) (*rowgen.Config, error) {
	mode, err := types.ParseMode(cmd.String("mode"))
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	rows := cmd.Int("rows")
	if rows < 0 {
		return nil, cli.Exit("rows must not be negative", 1)
	}
	return &rowgen.Config{
		Mode: mode,
		Rows: int(rows),
		Seed: uint64(cmd.Int("seed")),
	}, nil
}
