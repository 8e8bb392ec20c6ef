// --- START OF FINAL REVISED FILE internal/cli/git/git_exec_test.go ---
//go:build !gogit

package git

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	libgit "github.com/stackvity/keymap-converter/pkg/converter/git"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmdHelper runs a git command using os/exec and returns its combined output.
func runCmdHelper(t *testing.T, repoPath string, args ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), output)
	return string(output)
}

// setupTestGitRepo creates a repository holding a committed keymap directory
// and a README outside of it.
func setupTestGitRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("Skipping Git test: 'git' command not found in PATH")
	}
	repoPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	runCmd := func(args ...string) { runCmdHelper(t, repoPath, args...) }
	runCmd("init", "--initial-branch=main")
	runCmd("config", "user.email", "test@example.com")
	runCmd("config", "user.name", "Test User")
	runCmd("config", "commit.gpgsign", "false")

	keymapDir := filepath.Join(repoPath, "keymaps", "chrispetkau")
	require.NoError(t, os.MkdirAll(keymapDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "keymap.c"), []byte("// v1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "rules.mk"), []byte("ORYX_ENABLE = yes\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# qmk\n"), 0644))
	runCmd("add", ".")
	runCmd("commit", "-m", "Initial commit")
	return repoPath
}

func newTestClient(t *testing.T) *ExecGitClient {
	t.Helper()
	client, ok := NewExecGitClient(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).(*ExecGitClient)
	require.True(t, ok, "Failed to assert *ExecGitClient type")
	return client
}

func TestExecGitClient_IsGitAvailable(t *testing.T) { // minimal comment
	client := newTestClient(t)
	_, err := exec.LookPath("git")
	assert.Equal(t, err == nil, client.IsGitAvailable())
}

func TestNew_SelectsExecBackend(t *testing.T) {
	_, ok := New(nil).(*ExecGitClient)
	assert.True(t, ok)
}

func TestParsePorcelainZ(t *testing.T) {
	out := " M keymaps/chrispetkau/keymap.c\x00?? keymaps/chrispetkau/petkau_macros.inl\x00R  new.c\x00old.c\x00!! build/x.o\x00"
	assert.Equal(t, []string{
		"keymaps/chrispetkau/keymap.c",
		"keymaps/chrispetkau/petkau_macros.inl",
		"new.c",
	}, parsePorcelainZ(out))
	assert.Empty(t, parsePorcelainZ(""))
}

func TestExecGitClient_ChangedFiles(t *testing.T) { // minimal comment
	repoPath := setupTestGitRepo(t)
	client := newTestClient(t)
	keymapDir := filepath.Join(repoPath, "keymaps", "chrispetkau")

	files, err := client.ChangedFiles(context.Background(), repoPath, "keymaps/chrispetkau")
	require.NoError(t, err)
	assert.Empty(t, files, "fresh repository has no changes")

	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "keymap.c"), []byte("// v2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "petkau_macros.inl"), []byte("// macros\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# changed\n"), 0644))

	files, err = client.ChangedFiles(context.Background(), repoPath, "keymaps/chrispetkau")
	require.NoError(t, err)
	assert.Equal(t, []string{"keymaps/chrispetkau/keymap.c", "keymaps/chrispetkau/petkau_macros.inl"}, files)

	files, err = client.ChangedFiles(context.Background(), repoPath, "")
	require.NoError(t, err)
	assert.Contains(t, files, "README.md")
}

func TestExecGitClient_Commit(t *testing.T) { // minimal comment
	repoPath := setupTestGitRepo(t)
	client := newTestClient(t)
	keymapDir := filepath.Join(repoPath, "keymaps", "chrispetkau")
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "keymap.c"), []byte("// v2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(keymapDir, "petkau_tap_dance.inl"), []byte("// td\n"), 0644))
	require.NoError(t, os.Remove(filepath.Join(keymapDir, "rules.mk")))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# unrelated\n"), 0644))

	hash, err := client.Commit(ctx, repoPath, "keymaps/chrispetkau", "Update moonlander keymap from Oryx")
	require.NoError(t, err)
	assert.Len(t, hash, 40)
	assert.Equal(t, hash+"\n", runCmdHelper(t, repoPath, "rev-parse", "HEAD"))
	assert.Equal(t, "Update moonlander keymap from Oryx\n", runCmdHelper(t, repoPath, "log", "-1", "--format=%s"))

	status := runCmdHelper(t, repoPath, "status", "--porcelain")
	assert.Equal(t, " M README.md\n", status, "paths outside the pathspec stay uncommitted")

	_, err = client.Commit(ctx, repoPath, "keymaps/chrispetkau", "again")
	require.Error(t, err)
	assert.ErrorIs(t, err, libgit.ErrNothingToCommit)
	assert.NotErrorIs(t, err, libgit.ErrGitOperation)
}

func TestExecGitClient_Errors(t *testing.T) { // minimal comment
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("Skipping Git test: 'git' command not found in PATH")
	}
	client := newTestClient(t)
	ctx := context.Background()

	testCases := []struct {
		name         string
		repoPath     func(t *testing.T) string
		errorContain string
	}{
		{
			name:         "Missing Path",
			repoPath:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing") },
			errorContain: "does not exist",
		},
		{
			name: "Path Is A File",
			repoPath: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "file")
				require.NoError(t, os.WriteFile(p, nil, 0644))
				return p
			},
			errorContain: "not a directory",
		},
		{
			name: "Not A Repository",
			repoPath: func(t *testing.T) string {
				t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())
				return t.TempDir()
			},
			errorContain: "git status command failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := tc.repoPath(t)
			_, err := client.ChangedFiles(ctx, repo, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, libgit.ErrGitOperation)
			assert.Contains(t, err.Error(), tc.errorContain)

			_, err = client.Commit(ctx, repo, "", "msg")
			require.Error(t, err)
			assert.ErrorIs(t, err, libgit.ErrGitOperation)
		})
	}
}

// --- END OF FINAL REVISED FILE internal/cli/git/git_exec_test.go ---
