// --- START OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
package hooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter"
)

// --- TUI Message Structs ---

// StepDiscoveredMsg signals that the engine planned a pipeline step.
type StepDiscoveredMsg struct{ Step converter.Step }

// StepStatusUpdateMsg signals a change in a step's status.
type StepStatusUpdateMsg struct {
	Step     converter.Step
	Status   converter.Status
	Message  string
	Duration time.Duration
}

// RunCompleteMsg signals the completion of the entire conversion run.
type RunCompleteMsg struct{ Report converter.Report }

// --- Hook Implementation ---

// CLIHooks implements the converter.Hooks interface, bridging library events
// to the CLI's UI layer (TUI or logger).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
}

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg interface{})
}

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg interface{}) {}

// NewCLIHooks creates a new CLIHooks instance. Pass nil for tuiProg when no
// TUI runs; a NoOp program is used.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram) converter.Hooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
	}
}

// --- Interface Method Implementations ---

// OnStepDiscovered handles the event when the engine plans a step.
func (h *CLIHooks) OnStepDiscovered(step converter.Step) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(StepDiscoveredMsg{Step: step})
	} else if h.verboseEnabled {
		h.logger.Debug("Step planned", slog.String("step", string(step)))
	}
	return nil // Library ignores hook errors
}

// OnStepStatusUpdate handles events when a step's status changes.
func (h *CLIHooks) OnStepStatusUpdate(step converter.Step, status converter.Status, message string, duration time.Duration) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(StepStatusUpdateMsg{
			Step:     step,
			Status:   status,
			Message:  message,
			Duration: duration,
		})
		return nil
	}

	if status == converter.StatusFailed {
		h.logger.Error("Step failed", slog.String("step", string(step)), slog.String("error", message))
		return nil
	}
	if !h.verboseEnabled {
		return nil
	}

	logLevel := slog.LevelDebug
	attrs := []any{
		slog.String("step", string(step)),
		slog.String("status", string(status)),
	}
	if duration > 0 {
		attrs = append(attrs, slog.Duration("duration", duration))
	}
	if message != "" {
		attrs = append(attrs, slog.String("message", message))
	}
	switch status {
	case converter.StatusSuccess, converter.StatusCached, converter.StatusSkipped:
		logLevel = slog.LevelInfo
	}
	h.logger.Log(context.Background(), logLevel, "Step status updated", attrs...)
	return nil
}

// OnRunComplete sends the final report to the TUI. Without a TUI the caller
// prints the report itself.
func (h *CLIHooks) OnRunComplete(report converter.Report) error {
	if h.tuiEnabled {
		h.tuiProgram.Send(RunCompleteMsg{Report: report})
	}
	return nil
}

// --- END OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
