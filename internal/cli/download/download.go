// --- START OF FINAL REVISED FILE internal/cli/download/download.go ---
package download

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/stackvity/keymap-converter/pkg/util"
)

// maxEntryBytes caps the extracted size of a single archive entry. Oryx
// sources are a few hundred kilobytes.
const maxEntryBytes = 64 * 1024 * 1024

var (
	// ErrArchiveNotFound indicates no download in the import directory matched the prefix.
	ErrArchiveNotFound = errors.New("no matching archive found")
	// ErrExtract indicates the archive could not be read or an entry could not be written.
	ErrExtract = errors.New("failed to extract archive")
)

// Archive describes a located download.
type Archive struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Importer finds Oryx downloads and unpacks their source entries.
type Importer struct {
	logger *slog.Logger
}

// NewImporter creates an Importer logging through loggerHandler.
func NewImporter(loggerHandler slog.Handler) *Importer {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Importer{logger: slog.New(loggerHandler).With(slog.String("component", "importer"))}
}

// Locate returns the most recently modified regular file in dir whose name
// starts with prefix and ends in .zip. Ties on modification time go to the
// lexically greatest name so the result is stable.
func (i *Importer) Locate(dir, prefix string) (Archive, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: cannot read import directory '%s': %w", ErrArchiveNotFound, dir, err)
	}
	var candidates []Archive
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !util.MatchesArchiveName(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			i.logger.Warn("Skipping unreadable download", slog.String("name", entry.Name()), slog.Any("error", err))
			continue
		}
		candidates = append(candidates, Archive{Path: filepath.Join(dir, entry.Name()), ModTime: info.ModTime(), Size: info.Size()})
	}
	if len(candidates) == 0 {
		return Archive{}, fmt.Errorf("%w: no '%s*%s' file in '%s'", ErrArchiveNotFound, prefix, util.ArchiveExt, dir)
	}
	sort.Slice(candidates, func(a, b int) bool {
		if !candidates[a].ModTime.Equal(candidates[b].ModTime) {
			return candidates[a].ModTime.After(candidates[b].ModTime)
		}
		return candidates[a].Path > candidates[b].Path
	})
	newest := candidates[0]
	i.logger.Debug("Located download", slog.String("archive", newest.Path), slog.Time("modified", newest.ModTime), slog.Int("candidates", len(candidates)))
	return newest, nil
}

// Extract writes every file entry of archivePath under sourcePrefix into
// destDir, flattened to its base name, and returns the written paths in
// archive order. A later entry with the same base name overwrites the file.
func (i *Importer) Extract(ctx context.Context, archivePath, sourcePrefix, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open '%s': %w", ErrExtract, archivePath, err)
	}
	defer r.Close()

	written := make([]string, 0, len(r.File))
	seen := make(map[string]struct{})
	for idx, f := range r.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target, ok := util.ArchiveEntryTarget(f.Name, sourcePrefix)
		if !ok || f.FileInfo().IsDir() {
			i.logger.Debug("Skipping archive entry", slog.String("entry", f.Name))
			continue
		}
		outPath := filepath.Join(destDir, target)
		_, dup := seen[target]
		if dup {
			i.logger.Warn("Archive holds several entries with the same name; keeping the last", slog.String("name", target))
		}
		if err := extractEntry(f, outPath); err != nil {
			return nil, fmt.Errorf("%w: entry %d '%s': %w", ErrExtract, idx, f.Name, err)
		}
		i.logger.Debug("Extracted archive entry", slog.String("entry", f.Name), slog.String("path", outPath), slog.Uint64("bytes", f.UncompressedSize64))
		if !dup {
			seen[target] = struct{}{}
			written = append(written, outPath)
		}
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("%w: '%s' has no entries under '%s'", ErrExtract, filepath.Base(archivePath), sourcePrefix)
	}
	i.logger.Info("Extracted download", slog.String("archive", filepath.Base(archivePath)), slog.Int("files", len(written)))
	return written, nil
}

func extractEntry(f *zip.File, outPath string) (err error) {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
	}()
	n, err := io.Copy(out, io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return err
	}
	if n > maxEntryBytes {
		return fmt.Errorf("entry exceeds %d bytes", maxEntryBytes)
	}
	return nil
}

// TempDir is a scratch directory removed by Close. Close is idempotent, so
// callers defer it and may also call it explicitly to observe the error.
type TempDir struct {
	path   string
	logger *slog.Logger
}

// NewTempDir creates a fresh directory under parent (os.TempDir when empty).
func (i *Importer) NewTempDir(parent string) (*TempDir, error) {
	path, err := os.MkdirTemp(parent, "keymap-converter-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp directory: %w", ErrExtract, err)
	}
	i.logger.Debug("Created temp directory", slog.String("path", path))
	return &TempDir{path: path, logger: i.logger}, nil
}

// Path returns the directory, or "" once closed.
func (t *TempDir) Path() string { return t.path }

// Close removes the directory and all contents.
func (t *TempDir) Close() error {
	if t == nil || t.path == "" {
		return nil
	}
	path := t.path
	t.path = ""
	if err := os.RemoveAll(path); err != nil {
		t.logger.Error("Failed to delete temp directory", slog.String("path", path), slog.Any("error", err))
		return err
	}
	t.logger.Debug("Deleted temp directory", slog.String("path", path))
	return nil
}

// --- END OF FINAL REVISED FILE internal/cli/download/download.go ---
