// --- START OF FINAL REVISED FILE pkg/converter/toolchain/toolchain.go ---
// Package toolchain describes the external commands run after conversion:
// the QMK compile and the firmware flash.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stages an external command can run in, in pipeline order.
const (
	StageCompile = "compile" // e.g. qmk compile -kb moonlander -km <keymap>
	StageFlash   = "flash"   // e.g. wally-cli <firmware.bin>
)

// --- Error Variables ---

// ErrCommandFailed indicates a general failure running an external command.
var ErrCommandFailed = errors.New("external command failed")

// ErrCommandTimeout indicates the command exceeded the timeout of the context
// passed to the runner. errors.Is(err, ErrCommandFailed) is also true.
var ErrCommandTimeout = errors.New("external command timed out")

// ErrCommandNonZeroExit indicates the command exited with a non-zero status.
// errors.Is(err, ErrCommandFailed) is also true.
var ErrCommandNonZeroExit = errors.New("external command exited non-zero")

// --- Data Structures ---

// CommandConfig is one configured external command.
type CommandConfig struct {
	Name    string   `mapstructure:"name"`    // label for logs and the run report
	Stage   string   `mapstructure:"-"`       // StageCompile or StageFlash, set internally
	Enabled bool     `mapstructure:"enabled"` // disabled commands are skipped
	Command []string `mapstructure:"command"` // argv; executed directly, never through a shell
	Dir     string   `mapstructure:"dir"`     // working directory; empty means the current one
	Env     []string `mapstructure:"env"`     // extra KEY=VALUE pairs appended to the environment
}

// Result is the captured outcome of a command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// --- Interfaces ---

// CommandRunner runs external commands.
//
// Stability: Public Stable API - Implementations can be provided externally.
// Implementations must not interpret Command through a shell, must honour
// ctx for cancellation and timeout, and must return errors wrapping
// ErrCommandFailed (ErrCommandTimeout, ErrCommandNonZeroExit where they apply).
type CommandRunner interface {
	Run(ctx context.Context, cfg CommandConfig) (Result, error)
}

// Errorf returns a formatted error that wraps ErrCommandFailed.
func Errorf(format string, args ...interface{}) error {
	// minimal comment
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrCommandFailed}, args...)...)
}

// WrapCommandError wraps a specific command error (timeout, non-zero exit)
// with ErrCommandFailed.
func WrapCommandError(specificError error, format string, args ...interface{}) error {
	// minimal comment
	return fmt.Errorf("%w: %s: %w", ErrCommandFailed, fmt.Sprintf(format, args...), specificError)
}

// --- END OF FINAL REVISED FILE pkg/converter/toolchain/toolchain.go ---
