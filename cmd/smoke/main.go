package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/ecoscore/internal/smoketest"
	"github.com/okian/ecoscore/pkg/logger"
	"github.com/urfave/cli/v3"
)

// Default configuration constants.
const (
	defaultBaseURL     = "http://127.0.0.1:8000"
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

var (
	version = "v0.0.1-default"

	urlFlag = &cli.StringFlag{
		Name:    "url",
		Usage:   "Base URL of the service",
		Value:   defaultBaseURL,
		Sources: cli.EnvVars("ECOSCORE_SMOKE_URL"),
	}
	requestsFlag = &cli.IntFlag{
		Name:  "requests",
		Usage: "Extra concurrent predictions after the walkthrough (0 skips the load phase)",
	}
	workersFlag = &cli.IntFlag{
		Name:  "workers",
		Usage: "Number of concurrent workers",
		Value: runtime.NumCPU() * defaultWorkers,
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "HTTP request timeout",
		Value: defaultTimeout,
	}
	formatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format [text, json]",
		Value: logger.FormatText,
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "Log response bodies and debug output",
	}
)

func main() {
	cmd := &cli.Command{
		Name:    "smoke",
		Version: version,
		Usage:   "Exercise a running ecoscore service end to end",
		Flags: []cli.Flag{
			urlFlag,
			requestsFlag,
			workersFlag,
			timeoutFlag,
			formatFlag,
			verboseFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := logger.Init(logger.WithFormat(cmd.String(formatFlag.Name))); err != nil {
				return ctx, fmt.Errorf("initializing logger: %w", err)
			}
			if cmd.Bool(verboseFlag.Name) {
				_ = logger.SetLevelString("debug")
			}
			return ctx, nil
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		os.Stderr.WriteString("Smoke test failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	_, err := smoketest.Run(ctx, &smoketest.Config{
		BaseURL:  cmd.String(urlFlag.Name),
		Requests: cmd.Int(requestsFlag.Name),
		Workers:  cmd.Int(workersFlag.Name),
		Timeout:  cmd.Duration(timeoutFlag.Name),
		Verbose:  cmd.Bool(verboseFlag.Name),
	})
	return err
}
