// --- START OF FINAL REVISED FILE internal/testutil/helpers.go ---
package testutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateDummyFile writes content to path, creating parent directories.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "create parent of %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "write %s", path)
}

// CreateDummyDir creates the directory path and its parents.
func CreateDummyDir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755), "create directory %s", path)
}

// ZipEntry is one file of a test archive. A name ending in "/" is stored as
// a directory entry.
type ZipEntry struct {
	Name    string
	Content string
}

// WriteZip creates a zip archive at path holding entries in order; duplicate
// names are kept.
func WriteZip(t *testing.T, path string, entries ...ZipEntry) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.Name)
		require.NoError(t, err)
		if e.Content != "" {
			_, err = w.Write([]byte(e.Content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	CreateDummyFile(t, path, buf.String())
}

// WriteOryxDownload creates <dir>/<archivePrefix>abc12.zip laid out like an
// Oryx source download: keymap.c and config.h under sourcePrefix next to the
// firmware binary. It returns the archive path.
func WriteOryxDownload(t *testing.T, dir, archivePrefix, sourcePrefix, keymap string) string {
	t.Helper()
	path := filepath.Join(dir, archivePrefix+"abc12.zip")
	WriteZip(t, path,
		ZipEntry{Name: sourcePrefix + "/"},
		ZipEntry{Name: sourcePrefix + "/keymap.c", Content: keymap},
		ZipEntry{Name: sourcePrefix + "/config.h", Content: "#define ORYX_CONFIGURATOR\n"},
		ZipEntry{Name: "moonlander_colemak_coder.bin", Content: "firmware"},
	)
	return path
}

// --- END OF FINAL REVISED FILE internal/testutil/helpers.go ---
