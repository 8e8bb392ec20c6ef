// --- START OF FINAL REVISED FILE internal/cli/git/git_exec.go ---
//go:build !gogit

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	libgit "github.com/stackvity/keymap-converter/pkg/converter/git"
)

// ExecGitClient implements the GitClient interface using os/exec.
type ExecGitClient struct {
	logger *slog.Logger
}

// New returns the GitClient selected at build time (exec by default, go-git
// with the `gogit` build tag).
func New(loggerHandler slog.Handler) libgit.GitClient {
	return NewExecGitClient(loggerHandler)
}

// NewExecGitClient creates a new ExecGitClient.
// Returns the interface type for consistency.
func NewExecGitClient(loggerHandler slog.Handler) libgit.GitClient {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "exec"))
	logger.Debug("Using 'exec' backend for Git operations.")
	return &ExecGitClient{logger: logger}
}

// IsGitAvailable checks if the git command is available in the system's PATH.
func (c *ExecGitClient) IsGitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// runGitCommand executes a git command and returns its stdout, stderr, and any error.
func (c *ExecGitClient) runGitCommand(ctx context.Context, repoPath string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	stdoutStr := stdout.String()
	stderrStr := strings.TrimSpace(stderr.String())

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdoutStr, stderrStr, fmt.Errorf("command 'git %s' context error in %s: %w. stderr: %s", strings.Join(args, " "), repoPath, ctxErr, stderrStr)
		}
		return stdoutStr, stderrStr, fmt.Errorf("command 'git %s' failed in %s: %w. stderr: %s", strings.Join(args, " "), repoPath, runErr, stderrStr)
	}
	return stdoutStr, stderrStr, nil
}

// checkRepo verifies that repoPath is an existing directory.
func checkRepo(repoPath string) error {
	info, err := os.Stat(repoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return libgit.Errorf("repository path does not exist: %s", repoPath)
		}
		return libgit.Errorf("failed to access repository path %s: %w", repoPath, err)
	}
	if !info.IsDir() {
		return libgit.Errorf("repository path is not a directory: %s", repoPath)
	}
	return nil
}

// ChangedFiles implements the GitClient interface using `git status`.
func (c *ExecGitClient) ChangedFiles(ctx context.Context, repoPath, pathspec string) ([]string, error) {
	logArgs := []any{slog.String("repo", repoPath), slog.String("pathspec", pathspec)}
	c.logger.Debug("ExecGitClient: Getting changed files", logArgs...)
	if err := checkRepo(repoPath); err != nil {
		return nil, err
	}

	stdout, stderr, err := c.runGitCommand(ctx, repoPath, "status", "--porcelain=v1", "-z", "--untracked-files=all", "--", pathspecOrAll(pathspec))
	if err != nil {
		c.logger.Error("Failed to run git status", append(logArgs, slog.Any("error", err), slog.String("stderr", stderr))...)
		return nil, libgit.Errorf("git status command failed: %w", err)
	}
	files := parsePorcelainZ(stdout)
	c.logger.Debug("ExecGitClient: Found changed files", append(logArgs, slog.Int("count", len(files)))...)
	return files, nil
}

// parsePorcelainZ extracts paths from `git status --porcelain=v1 -z` output.
// Each record is "XY path"; renames and copies are followed by an extra
// record holding the original path.
func parsePorcelainZ(out string) []string {
	files := []string{}
	records := strings.Split(out, "\x00")
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 4 {
			continue
		}
		status := rec[:2]
		if status == "!!" {
			continue
		}
		files = append(files, filepath.ToSlash(rec[3:]))
		if status[0] == 'R' || status[0] == 'C' {
			i++
		}
	}
	sort.Strings(files)
	return files
}

// Commit stages pathspec (additions, modifications and deletions) and
// commits only those paths.
func (c *ExecGitClient) Commit(ctx context.Context, repoPath, pathspec, message string) (string, error) {
	logArgs := []any{slog.String("repo", repoPath), slog.String("pathspec", pathspec)}
	c.logger.Debug("ExecGitClient: Committing", logArgs...)
	if err := checkRepo(repoPath); err != nil {
		return "", err
	}
	spec := pathspecOrAll(pathspec)

	if _, stderr, err := c.runGitCommand(ctx, repoPath, "add", "-A", "--", spec); err != nil {
		c.logger.Error("Failed to stage changes", append(logArgs, slog.Any("error", err), slog.String("stderr", stderr))...)
		return "", libgit.Errorf("git add failed: %w", err)
	}

	// `git diff --cached --quiet` exits 1 when there are staged changes.
	_, _, err := c.runGitCommand(ctx, repoPath, "diff", "--cached", "--quiet", "--", spec)
	if err == nil {
		c.logger.Info("No changes to commit", logArgs...)
		return "", fmt.Errorf("%w: %s", libgit.ErrNothingToCommit, spec)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		return "", libgit.Errorf("git diff failed: %w", err)
	}

	if _, stderr, err := c.runGitCommand(ctx, repoPath, "commit", "-m", message, "--", spec); err != nil {
		c.logger.Error("Failed to commit", append(logArgs, slog.Any("error", err), slog.String("stderr", stderr))...)
		return "", libgit.Errorf("git commit failed: %w", err)
	}
	stdout, _, err := c.runGitCommand(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", libgit.Errorf("git rev-parse failed: %w", err)
	}
	hash := strings.TrimSpace(stdout)
	c.logger.Info("Committed export directory", append(logArgs, slog.String("commit", hash))...)
	return hash, nil
}

// --- END OF FINAL REVISED FILE internal/cli/git/git_exec.go ---
