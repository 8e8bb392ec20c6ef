// --- START OF FINAL REVISED FILE pkg/converter/constants.go ---
package converter

import "time"

// Names of the files read from the extracted Oryx source.
const (
	KeymapFileName = "keymap.c"
	ConfigFileName = "config.h"
	RulesFileName  = "rules.mk"
)

// Names of the generated artifacts besides keymap.c, config.h and rules.mk.
const (
	TapDanceFileName = "petkau_tap_dance.inl"
	MacrosFileName   = "petkau_macros.inl"
)

// ConfigInclude is appended to the copied config.h.
const ConfigInclude = `#include "petkau_config.inl"`

// Constants defining default values for the configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultStrict is the default classification policy (lenient).
	DefaultStrict = false
	// DefaultTuiEnabled is the default state for the Terminal UI.
	DefaultTuiEnabled = true
	// DefaultCacheEnabled is the default state for the processed-archive index.
	DefaultCacheEnabled = true
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
	// DefaultEncoding is assumed when a source file carries no encoding hint.
	DefaultEncoding = "utf-8"
	// DefaultArchivePrefix selects the Oryx download in the import directory.
	DefaultArchivePrefix = "moonlander_colemak_coder_"
	// DefaultSourcePrefix selects the archive entries that are extracted.
	DefaultSourcePrefix = "moonlander_colemak_coder_source"
	// DefaultCommitMessage is used for the export directory commit.
	DefaultCommitMessage = "Update moonlander keymap from Oryx"
	// DefaultCommandTimeout bounds each compile or flash command.
	DefaultCommandTimeout = 5 * time.Minute
	// DefaultWatchDebounceString is the default debounce duration string for watch mode.
	DefaultWatchDebounceString = "500ms"
	// DefaultWatchDebounceDuration is the parsed default debounce duration.
	DefaultWatchDebounceDuration = 500 * time.Millisecond
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
	// DefaultForce is the default for re-converting an already processed archive.
	DefaultForce = false
)

// Constants related to report schema.
const (
	// ReportSchemaVersion indicates the version of the JSON/YAML report structure.
	ReportSchemaVersion = "1.0"
)

// Constants defining cache status strings used in the Report.
const (
	CacheStatusHit      = "hit"
	CacheStatusMiss     = "miss"
	CacheStatusDisabled = "disabled"
)

// --- END OF FINAL REVISED FILE pkg/converter/constants.go ---
