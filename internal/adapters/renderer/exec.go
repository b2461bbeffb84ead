package renderer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rajatvd/GifGenerator/internal/domain/model"
)

const (
	envOutputPath = "GIFGEN_OUTPUT_PATH"
	envGenerator  = "GIFGEN_GENERATOR"

	maxStderrTail = 2048
)

// ExecOptions configures the command backend.
type ExecOptions struct {
	Command string   // Required: executable to run
	Args    []string // Optional: arguments before the generator name
	Dir     string   // Optional: working directory
	// WaitDelay bounds how long Render waits for output pipes after the
	// process is killed on cancellation.
	WaitDelay time.Duration
	Logger    *slog.Logger
}

// Exec runs one process per render. The generation config is written to the
// process's stdin as JSON and the target path is exported as
// GIFGEN_OUTPUT_PATH. If the process prints a path as its last stdout line,
// that path is the artifact; otherwise the target path is.
type Exec struct {
	command   string
	args      []string
	dir       string
	waitDelay time.Duration
	logger    *slog.Logger
}

// NewExec validates opts and constructs the backend.
func NewExec(opts ExecOptions) (*Exec, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, errors.New("renderer command is required")
	}
	wait := opts.WaitDelay
	if wait <= 0 {
		wait = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exec{
		command:   opts.Command,
		args:      append([]string(nil), opts.Args...),
		dir:       opts.Dir,
		waitDelay: wait,
		logger:    logger.With("component", "renderer_exec"),
	}, nil
}

// Render runs the command under ctx. Cancelling ctx kills the process.
func (e *Exec) Render(ctx context.Context, req model.RenderRequest) (string, error) {
	input, err := json.Marshal(newPayload(req))
	if err != nil {
		return "", fmt.Errorf("encode render request: %w", err)
	}

	args := append(append([]string(nil), e.args...), req.Generator)
	cmd := exec.CommandContext(ctx, e.command, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), envOutputPath+"="+req.OutputPath, envGenerator+"="+req.Generator)
	cmd.Stdin = bytes.NewReader(input)
	cmd.WaitDelay = e.waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", fmt.Errorf("render %s: %w", req.Generator, ctxErr)
	}
	if runErr != nil {
		return "", fmt.Errorf("render %s: %w: %s", req.Generator, runErr, tail(stderr.String(), maxStderrTail))
	}

	path := lastLine(stdout.String())
	if path == "" {
		path = req.OutputPath
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("render %s produced no artifact: %w", req.Generator, err)
	}
	e.logger.DebugContext(ctx, "render finished", "generator", req.Generator, "path", path, "elapsed", time.Since(start))
	return path, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
