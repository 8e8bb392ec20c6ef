package converter_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stackvity/keymap-converter/internal/testutil"
	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestArtifactWriter_WriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keymaps", "chrispetkau")
	infos, err := converter.NewArtifactWriter(nil).WriteAll(context.Background(), dir, []converter.Artifact{
		{Name: "keymap.c", Content: "new keymap\n"},
		{Name: "rules.mk", Content: ""},
	})
	require.NoError(t, err)

	require.Len(t, infos, 2)
	assert.Equal(t, converter.ArtifactInfo{Name: "keymap.c", Path: filepath.Join(dir, "keymap.c"), SizeBytes: 11}, infos[0])
	assert.Equal(t, "new keymap\n", readFile(t, filepath.Join(dir, "keymap.c")))
	assert.Equal(t, "", readFile(t, filepath.Join(dir, "rules.mk")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files are left behind")
}

func TestArtifactWriter_StagingFailureReplacesNothing(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(dir, "keymap.c"), "old")

	_, err := converter.NewArtifactWriter(nil).WriteAll(context.Background(), dir, []converter.Artifact{
		{Name: "keymap.c", Content: "new"},
		{Name: filepath.Join("missing", "dir", "x.inl"), Content: "x"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, converter.ErrWriteFailed)
	assert.Equal(t, "old", readFile(t, filepath.Join(dir, "keymap.c")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged files are removed")
}

func TestArtifactWriter_Cancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := converter.NewArtifactWriter(nil).WriteAll(ctx, dir, []converter.Artifact{{Name: "keymap.c", Content: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "keymap.c"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestArtifactWriter_WriteFiles(t *testing.T) {
	outDir := t.TempDir()
	sideDir := t.TempDir()
	keymap := filepath.Join(outDir, "keymap.c")
	testutil.CreateDummyFile(t, keymap, "old")

	infos, err := converter.NewArtifactWriter(nil).WriteFiles(context.Background(), []converter.Artifact{
		{Name: keymap, Content: "new"},
		{Name: filepath.Join(sideDir, "petkau_tap_dance.inl"), Content: "td"},
	})
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, keymap, infos[0].Path)
	assert.Equal(t, "new", readFile(t, keymap))
	assert.Equal(t, "td", readFile(t, filepath.Join(sideDir, "petkau_tap_dance.inl")))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArtifactWriter_WriteFilesMissingDirReplacesNothing(t *testing.T) {
	outDir := t.TempDir()
	keymap := filepath.Join(outDir, "keymap.c")
	testutil.CreateDummyFile(t, keymap, "old")

	_, err := converter.NewArtifactWriter(nil).WriteFiles(context.Background(), []converter.Artifact{
		{Name: keymap, Content: "new"},
		{Name: filepath.Join(outDir, "missing", "petkau_tap_dance.inl"), Content: "td"},
	})
	assert.ErrorIs(t, err, converter.ErrWriteFailed)
	assert.Equal(t, "old", readFile(t, keymap))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged files are removed")
}
