// --- START OF FINAL REVISED FILE internal/cli/git/git_gogit.go ---
//go:build gogit

package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"

	libgit "github.com/stackvity/keymap-converter/pkg/converter/git"
)

// GoGitClient implements the GitClient interface using go-git.
type GoGitClient struct {
	logger *slog.Logger
}

// New returns the GitClient selected at build time (exec by default, go-git
// with the `gogit` build tag).
func New(loggerHandler slog.Handler) libgit.GitClient {
	return NewGoGitClient(loggerHandler)
}

// NewGoGitClient creates a new GoGitClient.
// Returns the interface type for consistency.
func NewGoGitClient(loggerHandler slog.Handler) libgit.GitClient {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "gitClient"), slog.String("backend", "go-git"))
	logger.Debug("Using 'go-git' backend for Git operations.")
	return &GoGitClient{logger: logger}
}

// IsGitAvailable always reports true: go-git is compiled in.
func (c *GoGitClient) IsGitAvailable() bool {
	return true
}

// openWorktree opens the repository containing repoPath and returns its
// worktree together with pathspec rewritten relative to the worktree root.
func (c *GoGitClient) openWorktree(repoPath, pathspec string) (*git.Worktree, string, error) {
	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, "", libgit.Errorf("failed to get absolute path for repository '%s': %w", repoPath, err)
	}
	repo, err := git.PlainOpenWithOptions(absRepoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, "", libgit.Errorf("repository not found at or above path '%s': %w", absRepoPath, err)
		}
		return nil, "", libgit.Errorf("failed to open repository at '%s': %w", absRepoPath, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", libgit.Errorf("failed to get worktree for repository '%s': %w", repoPath, err)
	}
	root := wt.Filesystem.Root()
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(absRepoPath); err == nil {
		absRepoPath = resolved
	}
	rel, err := filepath.Rel(root, filepath.Join(absRepoPath, filepath.FromSlash(pathspecOrAll(pathspec))))
	if err != nil {
		return nil, "", libgit.Errorf("pathspec '%s' is outside the worktree '%s': %w", pathspec, root, err)
	}
	return wt, filepath.ToSlash(rel), nil
}

// changed lists paths under spec that differ from HEAD, with their status.
func changed(status git.Status, spec string) map[string]*git.FileStatus {
	out := make(map[string]*git.FileStatus)
	for file, fs := range status {
		file = filepath.ToSlash(file)
		if !underPathspec(file, spec) {
			continue
		}
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		out[file] = fs
	}
	return out
}

// ChangedFiles implements the GitClient interface using go-git status.
func (c *GoGitClient) ChangedFiles(ctx context.Context, repoPath, pathspec string) ([]string, error) {
	logArgs := []any{slog.String("repo", repoPath), slog.String("pathspec", pathspec)}
	c.logger.Debug("GoGitClient: Getting changed files", logArgs...)

	wt, spec, err := c.openWorktree(repoPath, pathspec)
	if err != nil {
		c.logger.Error("Failed to open repository", append(logArgs, slog.Any("error", err))...)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, libgit.Errorf("cancelled before git status: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, libgit.Errorf("failed to get git status for repository '%s': %w", repoPath, err)
	}

	files := make([]string, 0)
	for file := range changed(status, spec) {
		files = append(files, file)
	}
	sort.Strings(files)
	c.logger.Debug("GoGitClient: Found changed files", append(logArgs, slog.Int("count", len(files)))...)
	return files, nil
}

// Commit stages every change under pathspec and commits the index. Author
// and committer come from the repository configuration.
func (c *GoGitClient) Commit(ctx context.Context, repoPath, pathspec, message string) (string, error) {
	logArgs := []any{slog.String("repo", repoPath), slog.String("pathspec", pathspec)}
	c.logger.Debug("GoGitClient: Committing", logArgs...)

	wt, spec, err := c.openWorktree(repoPath, pathspec)
	if err != nil {
		c.logger.Error("Failed to open repository", append(logArgs, slog.Any("error", err))...)
		return "", err
	}
	status, err := wt.Status()
	if err != nil {
		return "", libgit.Errorf("failed to get git status for repository '%s': %w", repoPath, err)
	}

	staged := 0
	for file, fs := range changed(status, spec) {
		if err := ctx.Err(); err != nil {
			return "", libgit.Errorf("cancelled while staging: %w", err)
		}
		if fs.Worktree == git.Deleted {
			_, err = wt.Remove(file)
		} else {
			_, err = wt.Add(file)
		}
		if err != nil {
			return "", libgit.Errorf("failed to stage '%s': %w", file, err)
		}
		staged++
	}
	for file, fs := range status {
		if !underPathspec(filepath.ToSlash(file), spec) && fs.Staging != git.Unmodified && fs.Staging != git.Untracked {
			c.logger.Warn("Index holds staged changes outside the export directory; they are committed too", append(logArgs, slog.String("path", file))...)
		}
	}
	if staged == 0 {
		c.logger.Info("No changes to commit", logArgs...)
		return "", fmt.Errorf("%w: %s", libgit.ErrNothingToCommit, spec)
	}

	hash, err := wt.Commit(message, &git.CommitOptions{})
	if err != nil {
		c.logger.Error("Failed to commit", append(logArgs, slog.Any("error", err))...)
		return "", libgit.Errorf("git commit failed: %w", err)
	}
	c.logger.Info("Committed export directory", append(logArgs, slog.String("commit", hash.String()))...)
	return hash.String(), nil
}

// --- END OF FINAL REVISED FILE internal/cli/git/git_gogit.go ---
