// --- START OF NEW FILE pkg/converter/writer.go ---
package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Artifact is one output file rendered in memory.
type Artifact struct {
	Name    string // file name inside the export directory
	Content string
}

// ArtifactWriter writes a set of artifacts so that either all of them are
// replaced or none is. Every artifact is first staged as a temporary file in
// the target directory; the renames start only after all were staged.
type ArtifactWriter struct {
	logger *slog.Logger
	perm   os.FileMode
}

// NewArtifactWriter creates a writer producing files with mode 0644.
func NewArtifactWriter(loggerHandler slog.Handler) *ArtifactWriter {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &ArtifactWriter{
		logger: slog.New(loggerHandler).With(slog.String("component", "writer")),
		perm:   0644,
	}
}

type stagedArtifact struct {
	tmpPath string
	dest    string
	size    int64
}

// WriteAll stages and then renames every artifact into dir. Errors wrap
// ErrWriteFailed; temporary files never outlive the call.
func (w *ArtifactWriter) WriteAll(ctx context.Context, dir string, artifacts []Artifact) ([]ArtifactInfo, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrWriteFailed, dir, err)
	}
	dirs := make([]string, len(artifacts))
	for i := range artifacts {
		dirs[i] = dir
	}
	return w.write(ctx, dirs, artifacts)
}

// WriteFiles is WriteAll for artifacts whose Name is a file path. Each one is
// staged next to its destination, whose directory must exist.
func (w *ArtifactWriter) WriteFiles(ctx context.Context, files []Artifact) ([]ArtifactInfo, error) {
	dirs := make([]string, len(files))
	named := make([]Artifact, len(files))
	for i, f := range files {
		dirs[i] = filepath.Dir(f.Name)
		named[i] = Artifact{Name: filepath.Base(f.Name), Content: f.Content}
	}
	return w.write(ctx, dirs, named)
}

func (w *ArtifactWriter) write(ctx context.Context, dirs []string, artifacts []Artifact) ([]ArtifactInfo, error) {
	staged := make([]stagedArtifact, 0, len(artifacts))
	cleanup := func() {
		for _, s := range staged {
			_ = os.Remove(s.tmpPath)
		}
	}
	for i, a := range artifacts {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}
		tmpPath, err := w.stage(dirs[i], a)
		if err != nil {
			cleanup()
			w.logger.Error("Failed to stage artifact, nothing was replaced", slog.String("artifact", a.Name), slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: staging %s: %w", ErrWriteFailed, a.Name, err)
		}
		staged = append(staged, stagedArtifact{tmpPath: tmpPath, dest: filepath.Join(dirs[i], a.Name), size: int64(len(a.Content))})
	}

	infos := make([]ArtifactInfo, 0, len(staged))
	synced := make(map[string]bool)
	for i, s := range staged {
		if err := os.Rename(s.tmpPath, s.dest); err != nil {
			for _, rest := range staged[i:] {
				_ = os.Remove(rest.tmpPath)
			}
			w.logger.Error("Failed to replace artifact", slog.String("path", s.dest), slog.Int("replaced", i), slog.String("error", err.Error()))
			return infos, fmt.Errorf("%w: replacing %s: %w", ErrWriteFailed, s.dest, err)
		}
		infos = append(infos, ArtifactInfo{Name: filepath.Base(s.dest), Path: s.dest, SizeBytes: s.size})
		w.logger.Debug("Wrote artifact", slog.String("path", s.dest), slog.Int64("bytes", s.size))
	}
	for _, d := range dirs {
		if !synced[d] {
			synced[d] = true
			syncDir(d)
		}
	}
	return infos, nil
}

func (w *ArtifactWriter) stage(dir string, a Artifact) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+a.Name+".tmp-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, w.perm)
	if _, err := io.WriteString(tmp, a.Content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// syncDir best-effort fsyncs dir so the renames survive a crash.
func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = f.Sync()
	_ = f.Close()
}

// --- END OF NEW FILE pkg/converter/writer.go ---
