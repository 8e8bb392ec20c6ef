// --- START OF FINAL REVISED FILE pkg/converter/converter.go ---
// Package converter turns an Oryx keymap export into a reduced keymap.c that
// dispatches common code snippets through petkau_macros.inl, and writes the
// artifacts into a QMK keymap directory.
package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Convert is the main entry point for the core conversion library.
func Convert(ctx context.Context, opts Options) (Report, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		if opts.Logger != nil {
			slog.New(opts.Logger).Error(err.Error())
		}
		return Report{}, err
	}
	return engine.Run(ctx)
}

// TransformKeymap transforms a single keymap.c read from input without
// touching the filesystem. Nothing is written to keymapOut or tapDanceOut
// unless the whole transformation succeeded.
func TransformKeymap(input io.Reader, keymapOut, tapDanceOut io.Writer, strict bool, loggerHandler slog.Handler) (*Transformation, error) {
	t, err := NewProcessor(loggerHandler, nil, nil, strict).Transform(input)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(keymapOut, t.Output.Keymap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if tapDanceOut != nil {
		if _, err := io.WriteString(tapDanceOut, t.Output.TapDance); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
		}
	}
	return t, nil
}

// --- END OF FINAL REVISED FILE pkg/converter/converter.go ---
