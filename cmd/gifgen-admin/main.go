package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/rajatvd/GifGenerator/config"
	"github.com/rajatvd/GifGenerator/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultHistoryLimit     = 20
)

func main() {
	logger := bootstrap.InitLogger("info")

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger = bootstrap.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmdCtx := &commandContext{
		Ctx:    ctx,
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		stop()
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"next-name": {
			name:        "next-name",
			description: "Print the next free artifact path for the configured generator",
			run:         runNextName,
		},
		"run-once": {
			name:        "run-once",
			description: "Generate and deliver one batch immediately, outside the schedule",
			run:         runRunOnce,
		},
		"send": {
			name:        "send",
			description: "Deliver an existing file through the configured channel",
			run:         runSend,
		},
		"history": {
			name:        "history",
			description: "List recent runs from the run history database",
			run:         runHistory,
		},
		"migrate": {
			name:        "migrate",
			description: "Run (or list) run history database migrations",
			run:         runMigrations,
		},
		"status": {
			name:        "status",
			description: "Show (or clear) the most recent run",
			run:         runStatus,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: gifgen-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(os.Stdout, "  %-12s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type nextNameOptions struct {
	Dir string
}

type runOnceOptions struct {
	Count int
}

type sendOptions struct {
	File    string
	Caption string
	Timeout time.Duration
}

type historyOptions struct {
	Limit   int
	RawJSON bool
}

type migrateOptions struct {
	Timeout time.Duration
	// StatusOnly lists migrations without applying them.
	StatusOnly bool
}

type statusOptions struct {
	RawJSON bool
	Clear   bool
}

func parseNextNameFlags(args []string) (nextNameOptions, error) {
	fs := flag.NewFlagSet("next-name", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts nextNameOptions
	fs.StringVar(&opts.Dir, "dir", "", "Output directory to scan (defaults to the generator's directory)")

	if err := fs.Parse(args); err != nil {
		return nextNameOptions{}, err
	}
	opts.Dir = strings.TrimSpace(opts.Dir)
	return opts, nil
}

func parseRunOnceFlags(args []string) (runOnceOptions, error) {
	fs := flag.NewFlagSet("run-once", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts runOnceOptions
	fs.IntVar(&opts.Count, "count", 0, "Artifacts to produce (0 uses GIFGEN_COUNT)")

	if err := fs.Parse(args); err != nil {
		return runOnceOptions{}, err
	}
	if opts.Count < 0 {
		return runOnceOptions{}, errors.New("--count must not be negative")
	}
	return opts, nil
}

func parseSendFlags(args []string, defaultTimeout time.Duration) (sendOptions, error) {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := sendOptions{Timeout: defaultTimeout}
	fs.StringVar(&opts.File, "file", "", "Path of the file to deliver (required)")
	fs.StringVar(&opts.Caption, "caption", "", "Optional caption")
	fs.DurationVar(&opts.Timeout, "timeout", defaultTimeout, "Maximum duration for the upload")

	if err := fs.Parse(args); err != nil {
		return sendOptions{}, err
	}

	opts.File = strings.TrimSpace(opts.File)
	if opts.File == "" && fs.NArg() > 0 {
		opts.File = fs.Arg(0)
	}
	switch {
	case opts.File == "":
		return sendOptions{}, errors.New("--file is required")
	case opts.Timeout <= 0:
		return sendOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseHistoryFlags(args []string) (historyOptions, error) {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := historyOptions{Limit: defaultHistoryLimit}
	fs.IntVar(&opts.Limit, "limit", defaultHistoryLimit, "Number of runs to list (1-200)")
	fs.BoolVar(&opts.RawJSON, "json", false, "Print runs as JSON")

	if err := fs.Parse(args); err != nil {
		return historyOptions{}, err
	}
	if opts.Limit < 1 || opts.Limit > 200 {
		return historyOptions{}, errors.New("--limit must be between 1 and 200")
	}
	return opts, nil
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{Timeout: defaultMigrationTimeout}
	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)
	fs.BoolVar(&opts.StatusOnly, "status", false, "List migrations and whether they are applied")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}
	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseStatusFlags(args []string) (statusOptions, error) {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts statusOptions
	fs.BoolVar(&opts.RawJSON, "json", false, "Print the run as JSON")
	fs.BoolVar(&opts.Clear, "clear", false, "Remove the cached last run instead of printing it")

	if err := fs.Parse(args); err != nil {
		return statusOptions{}, err
	}
	return opts, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
