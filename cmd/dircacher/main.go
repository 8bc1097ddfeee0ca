// Package main is the entry point for the dircacher application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"golang.org/x/term" //nolint:depguard // Required for TTY detection

	"github.com/joe/dircacher/internal/config"
	"github.com/joe/dircacher/internal/report"
	"github.com/joe/dircacher/internal/tui"
	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
	"github.com/joe/dircacher/pkg/filesystem"
)

// Exit statuses.
const (
	exitOK         = 0
	exitIncomplete = 1
	exitUsage      = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], filesystem.NewRealFileSystem(), os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run parses args, warms the roots and prints the report, returning the exit status.
func run(ctx context.Context, args []string, fs filesystem.FileSystem, stdout, stderr io.Writer) int {
	cfg, err := config.ParseArgs(args)
	if err != nil {
		return usageError(stdout, stderr, err)
	}

	interactive := cfg.Progress && isTerminal(stderr)

	logger, closeLog, err := newLogger(cfg, stderr, interactive)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitUsage
	}

	defer closeLog()

	engine, err := newEngine(cfg, fs, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitUsage
	}

	warm := func() (*warmer.Summary, error) {
		return engine.Run(ctx, cfg.Paths)
	}

	var summary *warmer.Summary

	if interactive {
		bridge := shared.NewEventBridge()
		engine.SetEventEmitter(bridge)
		summary, err = tui.Run(engine, bridge, stderr, logger, warm)
	} else {
		summary, err = warm()
	}

	if err != nil && !errors.Is(err, warmer.ErrCancelled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitUsage
	}

	writeErr := report.Write(stdout, summary, report.Options{ListErrors: cfg.ListErrors})
	if writeErr != nil {
		logger.Error("report failed", slog.Any("error", writeErr))
	}

	return exitStatus(summary)
}

func exitStatus(summary *warmer.Summary) int {
	if summary.Complete() {
		return exitOK
	}

	return exitIncomplete
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

func newEngine(cfg *config.Config, fs filesystem.FileSystem, logger *slog.Logger) (*warmer.Engine, error) {
	engine := warmer.NewEngine(fs)
	engine.Workers = cfg.Workers
	engine.ProbeSymlinks = cfg.ProbeSymlinks
	engine.RecordLimit = cfg.MaxErrorRecords
	engine.ProgressInterval = cfg.ProgressInterval
	engine.SetLogger(logger)

	if len(cfg.Exclude) > 0 {
		filter, err := warmer.NewGlobFilter(cfg.Exclude...)
		if err != nil {
			return nil, fmt.Errorf("failed to build exclude filter: %w", err)
		}

		engine.Filter = filter
	}

	return engine, nil
}

// newLogger builds the slog logger for cfg. Without --log-file, logs go to
// stderr unless the progress view owns it.
func newLogger(cfg *config.Config, stderr io.Writer, interactive bool) (*slog.Logger, func(), error) {
	out := stderr
	closeLog := func() {}

	switch {
	case cfg.LogFile != "":
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFileMode)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		out = file
		closeLog = func() { _ = file.Close() }
	case interactive:
		out = io.Discard
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogJSON:
		handler = slog.NewJSONHandler(out, opts)
	default:
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closeLog, nil
}

// usageError reports a parse failure. --help and --version are not failures.
func usageError(stdout, stderr io.Writer, err error) int {
	switch {
	case errors.Is(err, arg.ErrHelp):
		_ = config.WriteHelp(stdout)

		return exitOK
	case errors.Is(err, arg.ErrVersion):
		fmt.Fprintln(stdout, config.Config{}.Version())

		return exitOK
	}

	_ = config.WriteUsage(stderr)
	fmt.Fprintf(stderr, "Error: %v\n", err)

	return exitUsage
}

// unexported constants.
const (
	logFileMode = 0o644
)
