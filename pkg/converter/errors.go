// --- START OF FINAL REVISED FILE pkg/converter/errors.go ---
package converter

import (
	"errors"

	"github.com/stackvity/keymap-converter/pkg/converter/cache"
	"github.com/stackvity/keymap-converter/pkg/converter/codemap"
	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	"github.com/stackvity/keymap-converter/pkg/converter/git"
	"github.com/stackvity/keymap-converter/pkg/converter/macro"
	"github.com/stackvity/keymap-converter/pkg/converter/rewrite"
	"github.com/stackvity/keymap-converter/pkg/converter/section"
	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
)

// --- Exported Error Variables ---
// These errors represent the categories of failure Convert and Transform can
// return. Errors raised by subpackages are re-exported here so library users
// only need this package to test them with errors.Is.

var (
	// ErrUnknownEncodingName indicates a macro names a key the code map does
	// not know. With the strict policy this aborts the run; otherwise the slot
	// stays literal and the error is recorded on the slot.
	ErrUnknownEncodingName = codemap.ErrUnknownName

	// ErrUnencodableChar indicates a catalog text contains a character with no
	// QMK keystroke. Only reachable through a broken catalog.
	ErrUnencodableChar = codemap.ErrUnencodableChar

	// ErrControlModifierUnsupported indicates a macro holds a Ctrl chord.
	ErrControlModifierUnsupported = macro.ErrControlModifierUnsupported

	// ErrNoCatalogMatch indicates a decoded macro matched no catalog entry
	// under the strict policy.
	ErrNoCatalogMatch = macro.ErrNoCatalogMatch

	// ErrAmbiguousCatalogMatch is informational: several entries matched and
	// the first one was used. It is reported, never returned.
	ErrAmbiguousCatalogMatch = macro.ErrAmbiguousCatalogMatch

	// ErrMalformedSectionOrder indicates the keymap ended before all sections
	// were seen.
	ErrMalformedSectionOrder = section.ErrMalformedSectionOrder

	// ErrMissingSlotReference indicates an ST_MACRO_n reference or case whose
	// ordinal has no extracted macro.
	ErrMissingSlotReference = rewrite.ErrMissingSlotReference

	// ErrBinaryInput indicates a source file that is not text.
	ErrBinaryInput = encoding.ErrBinaryInput

	// ErrReadFailed indicates a failure to read a source file from the filesystem.
	ErrReadFailed = errors.New("failed to read file")

	// ErrSourceNotFound indicates the source directory lacks keymap.c.
	ErrSourceNotFound = errors.New("keymap source not found")

	// ErrWriteFailed indicates a failure to stage or rename an output artifact.
	// When it is returned no artifact of the run has been replaced.
	ErrWriteFailed = errors.New("failed to write output file")

	// ErrTemplateExecution indicates the catalog template could not be rendered.
	ErrTemplateExecution = errors.New("template execution failed")

	// ErrConfigValidation indicates that the provided Options failed validation
	// at the beginning of Convert. It is returned directly as a fatal error.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrCommandFailed indicates the compile or flash command failed.
	// ErrCommandTimeout and ErrCommandNonZeroExit narrow it down.
	ErrCommandFailed      = toolchain.ErrCommandFailed
	ErrCommandTimeout     = toolchain.ErrCommandTimeout
	ErrCommandNonZeroExit = toolchain.ErrCommandNonZeroExit

	// ErrGitOperation indicates the commit of the export directory failed.
	ErrGitOperation = git.ErrGitOperation

	// ErrCacheLoad and ErrCachePersist are logged by the CLI, the conversion
	// itself never fails because of the archive index.
	ErrCacheLoad    = cache.ErrCacheLoad
	ErrCachePersist = cache.ErrCachePersist
)

// --- END OF FINAL REVISED FILE pkg/converter/errors.go ---
