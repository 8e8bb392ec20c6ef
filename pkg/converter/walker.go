// --- START OF MODIFIED FILE pkg/converter/walker.go ---
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
)

// Sources holds the absolute paths of the files read from an extracted Oryx
// source. Config and Rules are empty when the export did not contain them.
type Sources struct {
	Keymap string
	Config string
	Rules  string
}

// Walker finds the source files below a directory. The archive entries are
// flattened on extraction, but a manually unpacked source keeps Oryx's
// nested layout, so the whole tree is searched.
type Walker struct {
	root   string
	logger *slog.Logger
}

// NewWalker creates a new Walker rooted at sourceDir.
func NewWalker(sourceDir string, loggerHandler slog.Handler) *Walker { // Minimal comment
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Walker{
		root:   sourceDir,
		logger: slog.New(loggerHandler).With(slog.String("component", "walker")),
	}
}

// Walk returns the shallowest keymap.c, config.h and rules.mk found. A missing
// keymap.c fails with ErrSourceNotFound.
func (w *Walker) Walk(ctx context.Context) (Sources, error) { // Minimal comment
	w.logger.Debug("Starting source walk", slog.String("path", w.root))
	var found Sources
	depths := map[string]int{}
	walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.root {
				return fmt.Errorf("%w: %w", ErrReadFailed, err)
			}
			w.logger.Warn("Error accessing path during walk", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		// Skip Symbolic Links
		if d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		var slot *string
		switch name {
		case KeymapFileName:
			slot = &found.Keymap
		case ConfigFileName:
			slot = &found.Config
		case RulesFileName:
			slot = &found.Rules
		default:
			return nil
		}
		depth := strings.Count(filepath.ToSlash(path), "/")
		if prev, seen := depths[name]; seen && prev <= depth {
			w.logger.Debug("Ignoring deeper duplicate source file", slog.String("path", path), slog.String("using", *slot))
			return nil
		}
		depths[name] = depth
		*slot = path
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			w.logger.Info("Source walk cancelled", slog.String("reason", walkErr.Error()))
		}
		return Sources{}, walkErr
	}
	if found.Keymap == "" {
		return Sources{}, fmt.Errorf("%w: no %s below %s", ErrSourceNotFound, KeymapFileName, w.root)
	}
	if found.Config == "" {
		w.logger.Warn("Source has no config.h, it will not be exported")
	}
	if found.Rules == "" {
		w.logger.Warn("Source has no rules.mk, it will not be exported")
	}
	w.logger.Info("Source files located", slog.String("keymap", found.Keymap))
	return found, nil
}

// --- END OF MODIFIED FILE pkg/converter/walker.go ---
