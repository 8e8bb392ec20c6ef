// --- START OF FINAL REVISED FILE internal/cli/watch/watch.go ---
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stackvity/keymap-converter/pkg/util"
)

// ErrWatch indicates the import directory could not be watched.
var ErrWatch = errors.New("failed to watch import directory")

// TriggerFunc converts one archive. Errors are logged and watching continues.
type TriggerFunc func(ctx context.Context, archivePath string) error

// Watcher re-runs a conversion whenever a new Oryx download settles in the
// import directory.
type Watcher struct {
	dir       string
	prefix    string
	debounce  time.Duration
	logger    *slog.Logger
	fsw       *fsnotify.Watcher
	closeOnce sync.Once
}

// New starts watching dir for archives named prefix*.zip. Events for the same
// download are coalesced until none arrived for debounce.
func New(loggerHandler slog.Handler, dir, prefix string, debounce time.Duration) (*Watcher, error) {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	if debounce <= 0 {
		return nil, fmt.Errorf("%w: debounce must be positive, got %s", ErrWatch, debounce)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: '%s': %w", ErrWatch, dir, err)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "watcher"))
	logger.Debug("Watching import directory", slog.String("dir", dir), slog.String("prefix", prefix), slog.Duration("debounce", debounce))
	return &Watcher{dir: dir, prefix: prefix, debounce: debounce, logger: logger, fsw: fsw}, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.fsw.Close() })
	return err
}

// Run blocks until ctx is done, calling trigger once per settled download.
// Every distinct archive seen in one debounce window is converted, in the
// order its first event arrived. Conversions never overlap: events arriving
// during a conversion start a new debounce window after it returns. Run
// closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, trigger TriggerFunc) error {
	defer w.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var pending []string
	queued := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Watch stopped", slog.String("reason", ctx.Err().Error()))
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("%w: event channel closed", ErrWatch)
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Download event", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			if !queued[event.Name] {
				queued[event.Name] = true
				pending = append(pending, event.Name)
				if len(pending) > 1 {
					w.logger.Debug("Download queued behind another", slog.String("archive", filepath.Base(event.Name)), slog.Int("queued", len(pending)))
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("%w: error channel closed", ErrWatch)
			}
			w.logger.Warn("Watcher error", slog.Any("error", err))

		case <-timer.C:
			batch := pending
			pending = nil
			clear(queued)
			for _, archive := range batch {
				if ctx.Err() != nil {
					break
				}
				w.logger.Info("New download detected", slog.String("archive", filepath.Base(archive)))
				if err := trigger(ctx, archive); err != nil {
					w.logger.Error("Conversion of new download failed", slog.String("archive", filepath.Base(archive)), slog.Any("error", err))
				}
			}
		}
	}
}

// relevant reports whether event concerns a matching archive being created
// or written. Removals and permission changes are ignored.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return util.MatchesArchiveName(filepath.Base(event.Name), w.prefix)
}

// --- END OF FINAL REVISED FILE internal/cli/watch/watch.go ---
