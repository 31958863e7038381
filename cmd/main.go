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

	service "github.com/okian/rowscore/internal/app"
	"github.com/okian/rowscore/internal/config"
	"github.com/okian/rowscore/internal/domain/types"
	"github.com/okian/rowscore/pkg/logger"
)

// Flag names.
const (
	flagConfig      = "config"
	flagLogLevel    = "log-level"
	flagByteOrder   = "byte-order"
	flagTruncation  = "truncation"
	flagCapture     = "capture"
	flagReplay      = "replay"
	flagMetricsFile = "metrics-file"
)

var version = "v0.0.1-default"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one scorer invocation and returns the process exit status.
// stdout carries scores only; everything human readable goes to stderr.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newCommand(stdin, stdout, stderr)
	err := cmd.Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			_, _ = fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	_, _ = fmt.Fprintln(stderr, "rowscore:", err)
	return 1
}

func usage() string {
	return fmt.Sprintf("usage: rowscore [flags] <%s>", strings.Join(types.Names(), "|"))
}

func newCommand(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:            "rowscore",
		Version:         version,
		Usage:           "score location feature rows streamed by a ClickHouse executable UDF",
		ArgsUsage:       "<" + strings.Join(types.Names(), "|") + ">",
		HideHelpCommand: true,
		Writer:          stderr,
		ErrWriter:       stderr,
		// exit codes are mapped by run
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Usage:   "YAML config file",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "log level on stderr [debug, info, warn, error]",
			},
			&cli.StringFlag{
				Name:  flagByteOrder,
				Usage: "byte order of wire scalars [little, big, native]",
			},
			&cli.StringFlag{
				Name:  flagTruncation,
				Usage: "policy for rows cut mid-record [zero_fill, drop, strict]",
			},
			&cli.StringFlag{
				Name:  flagCapture,
				Usage: "record raw input to this file (.zst, .lz4, .s2 or raw)",
			},
			&cli.StringFlag{
				Name:  flagReplay,
				Usage: "read input from a capture file instead of stdin",
			},
			&cli.StringFlag{
				Name:  flagMetricsFile,
				Usage: "write a Prometheus textfile here at exit",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return cli.Exit(usage(), 1)
			}
			mode, err := types.ParseMode(cmd.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("%v\n%s", err, usage()), 1)
			}

			cfg, err := loadConfig(ctx, cmd)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			// Initialize logging on stderr
			if err := logger.InitWithWriter(stderr, cfg.LogFormat); err != nil {
				return cli.Exit("failed to initialize logging: "+err.Error(), 1)
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer func() { _ = logger.Sync() }()

			svc := service.New(
				service.WithConfig(cfg),
				service.WithLogger(logger.Get()),
				service.WithReplay(cmd.String(flagReplay)),
			)
			if _, err := svc.Run(ctx, mode, stdin, stdout); err != nil {
				return cli.Exit("rowscore: "+err.Error(), 1)
			}
			return nil
		},
	}
}

// loadConfig layers command-line flags over defaults, file and env.
func loadConfig(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(ctx, cmd.String(flagConfig))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{flagLogLevel, &cfg.LogLevel},
		{flagByteOrder, &cfg.ByteOrder},
		{flagTruncation, &cfg.Truncation},
		{flagCapture, &cfg.CapturePath},
		{flagMetricsFile, &cfg.MetricsPath},
	}
	for _, o := range overrides {
		if v := cmd.String(o.flag); v != "" {
			*o.dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
