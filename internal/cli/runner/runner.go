// --- START OF FINAL REVISED FILE internal/cli/runner/runner.go ---
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
)

const (
	// maxLogOutputBytes limits the size of stdout/stderr echoed into logs.
	maxLogOutputBytes = 1024
	// maxCaptureBytes caps how much of each stream is kept in memory.
	maxCaptureBytes = 10 * 1024 * 1024
)

// execCommandRunner implements the toolchain.CommandRunner interface using os/exec.
type execCommandRunner struct {
	logger *slog.Logger
}

// NewExecCommandRunner creates a runner that executes commands as external
// processes, never through a shell.
func NewExecCommandRunner(loggerHandler slog.Handler) toolchain.CommandRunner { // minimal comment
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "commandRunner"))
	return &execCommandRunner{logger: logger}
}

// Run executes cfg.Command and captures its output.
func (r *execCommandRunner) Run(ctx context.Context, cfg toolchain.CommandConfig) (toolchain.Result, error) { // minimal comment
	logArgs := []any{
		slog.String("command", cfg.Name),
		slog.String("stage", cfg.Stage),
	}

	if len(cfg.Command) == 0 {
		err := fmt.Errorf("command cannot be empty")
		r.logger.Error("Command configuration error", append(logArgs, slog.Any("error", err))...)
		return toolchain.Result{ExitCode: -1}, toolchain.Errorf("configuration error for '%s': %w", cfg.Name, err)
	}

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return toolchain.Result{ExitCode: -1}, toolchain.Errorf("failed to create stdout pipe for '%s': %w", cfg.Name, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return toolchain.Result{ExitCode: -1}, toolchain.Errorf("failed to create stderr pipe for '%s': %w", cfg.Name, err)
	}

	start := time.Now()
	if startErr := cmd.Start(); startErr != nil {
		r.logger.Error("Failed to start command", append(logArgs, slog.String("argv", strings.Join(cfg.Command, " ")), slog.Any("error", startErr))...)
		return toolchain.Result{ExitCode: -1}, toolchain.Errorf("failed to start '%s' command '%s': %w", cfg.Name, cfg.Command[0], startErr)
	}
	r.logger.Debug("Command started", append(logArgs, slog.String("argv", strings.Join(cfg.Command, " ")))...)

	var wg sync.WaitGroup
	var stdoutData, stderrData []byte
	capture := func(src io.Reader, dst *[]byte, stream string) {
		defer wg.Done()
		var buf bytes.Buffer
		n, err := io.Copy(&buf, io.LimitReader(src, maxCaptureBytes))
		*dst = buf.Bytes()
		if err == nil && n >= maxCaptureBytes {
			r.logger.Warn("Command output truncated", append(logArgs, slog.String("stream", stream), slog.Int64("limit_bytes", maxCaptureBytes))...)
			_, _ = io.Copy(io.Discard, src)
		} else if err != nil && !errors.Is(err, os.ErrClosed) {
			r.logger.Warn("Error reading command output", append(logArgs, slog.String("stream", stream), slog.Any("error", err))...)
		}
	}
	wg.Add(2)
	go capture(stdoutPipe, &stdoutData, "stdout")
	go capture(stderrPipe, &stderrData, "stderr")

	// Pipes must be drained before Wait closes them.
	wg.Wait()
	waitErr := cmd.Wait()

	res := toolchain.Result{
		Stdout:   string(stdoutData),
		Stderr:   strings.TrimSpace(string(stderrData)),
		Duration: time.Since(start),
	}
	if res.Stderr != "" {
		logArgs = append(logArgs, slog.String("stderr", truncate(res.Stderr)))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		r.logger.Error("Command cancelled or timed out", append(logArgs, slog.Any("error", ctxErr))...)
		return res, toolchain.WrapCommandError(toolchain.ErrCommandTimeout, "'%s' cancelled or timed out after %s: %v", cfg.Name, res.Duration.Round(time.Millisecond), ctxErr)
	}

	if waitErr != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		r.logger.Error("Command failed", append(logArgs, slog.Int("exitCode", res.ExitCode), slog.Any("error", waitErr))...)
		return res, toolchain.WrapCommandError(toolchain.ErrCommandNonZeroExit, "'%s' failed with exit code %d: %v", cfg.Name, res.ExitCode, waitErr)
	}

	r.logger.Debug("Command finished successfully", append(logArgs, slog.Duration("duration", res.Duration))...)
	return res, nil
}

func truncate(s string) string {
	if len(s) > maxLogOutputBytes {
		return s[:maxLogOutputBytes] + "... (truncated)"
	}
	return s
}

// --- END OF FINAL REVISED FILE internal/cli/runner/runner.go ---
