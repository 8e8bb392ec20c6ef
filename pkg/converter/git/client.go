// --- START OF FINAL REVISED FILE pkg/converter/git/client.go ---
// Package git defines the version control collaborator used to commit the
// converted keymap into the QMK firmware checkout.
package git

import (
	"context"
	"errors"
	"fmt"
)

// --- Error Variables ---

// ErrGitOperation indicates a failure during a Git operation performed via
// the GitClient: the path is not a repository, nothing could be staged, or
// the git command/library failed. Implementations wrap the underlying error
// with Errorf so callers can test errors.Is(err, ErrGitOperation).
var ErrGitOperation = errors.New("git operation failed")

// ErrNothingToCommit indicates the staged paths had no changes. Callers
// usually treat it as success.
var ErrNothingToCommit = errors.New("nothing to commit")

// --- Interfaces ---

// GitClient commits converter output. Implementations use the native `git`
// command via os/exec or the go-git library.
//
// Stability: Public Stable API - Implementations can be provided externally.
type GitClient interface {
	// ChangedFiles lists paths under pathspec (relative to repoPath) that
	// differ from HEAD, including untracked files.
	ChangedFiles(ctx context.Context, repoPath, pathspec string) ([]string, error)

	// Commit stages pathspec and commits it with message, returning the new
	// commit hash. No changes yields ErrNothingToCommit.
	Commit(ctx context.Context, repoPath, pathspec, message string) (string, error)
}

// Errorf returns a formatted error that wraps ErrGitOperation.
// Helper intended for use by GitClient implementations.
func Errorf(format string, args ...interface{}) error {
	// minimal comment
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrGitOperation}, args...)...)
}

// --- END OF FINAL REVISED FILE pkg/converter/git/client.go ---
