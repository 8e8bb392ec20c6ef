// --- START OF FINAL REVISED FILE pkg/converter/options.go ---
package converter

import (
	"log/slog"
	"text/template"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	"github.com/stackvity/keymap-converter/pkg/converter/git"
	"github.com/stackvity/keymap-converter/pkg/converter/language"
	tpl "github.com/stackvity/keymap-converter/pkg/converter/template"
	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
)

// ToolchainConfig holds the post-conversion commands.
type ToolchainConfig struct {
	Compile toolchain.CommandConfig `mapstructure:"compile"`
	Flash   toolchain.CommandConfig `mapstructure:"flash"`
	Timeout string                  `mapstructure:"timeout"`
}

// GitConfig holds settings related to committing the export directory.
type GitConfig struct {
	Commit  bool   `mapstructure:"commit"`
	Repo    string `mapstructure:"repo"` // repository root; empty means the export directory
	Message string `mapstructure:"message"`
}

// Hooks defines callbacks for status updates during the conversion process.
// Implementations MUST be thread-safe as methods may be called from the
// goroutine running Convert while the UI reads on another.
type Hooks interface {
	OnStepDiscovered(step Step) error
	OnStepStatusUpdate(step Step, status Status, message string, duration time.Duration) error
	OnRunComplete(report Report) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnStepDiscovered implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnStepDiscovered(step Step) error { return nil }

// OnStepStatusUpdate implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnStepStatusUpdate(step Step, status Status, message string, duration time.Duration) error { // minimal comment
	return nil
}

// OnRunComplete implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnRunComplete(report Report) error { return nil }

// Options holds all configuration for a Convert run.
type Options struct {
	// --- Core Paths ---
	SourceDir string `mapstructure:"-"`         // Required: directory holding the extracted keymap.c, config.h, rules.mk
	ExportDir string `mapstructure:"exportDir"` // Required: keymap directory inside the QMK checkout

	// --- Application Info ---
	AppVersion string `mapstructure:"-"` // e.g. "v1.2.0" or "dev"; populated by the caller

	// --- Behavior & Control ---
	ConfigFilePath string `mapstructure:"-"`          // Path to the loaded config file (for reporting)
	ProfileName    string `mapstructure:"-"`          // Name of the profile used (for reporting)
	Strict         bool   `mapstructure:"strict"`     // abort on undecodable or unmatched macros
	Verbose        bool   `mapstructure:"verbose"`    // Enable debug logging
	TuiEnabled     bool   `mapstructure:"tuiEnabled"` // Hint for CLI to use TUI (ignored if Verbose)

	// --- Input & Output ---
	DefaultEncoding string             `mapstructure:"defaultEncoding"`
	Template        *template.Template `mapstructure:"-"`            // Parsed catalog template (nil for default)
	TemplatePath    string             `mapstructure:"templateFile"` // Path to custom catalog template
	OutputFormat    OutputFormat       `mapstructure:"outputFormat"` // ("text", "json", "yaml") for final report

	// --- Workflow Features ---
	Toolchain      ToolchainConfig `mapstructure:"toolchain"`
	CommandTimeout time.Duration   `mapstructure:"-"` // Derived from Toolchain.Timeout
	Git            GitConfig       `mapstructure:"git"`

	// --- Injected Dependencies ---
	EventHooks       Hooks                     `mapstructure:"-"` // Optional: NoOpHooks when nil
	Logger           slog.Handler              `mapstructure:"-"` // Required: Logging backend
	EncodingHandler  encoding.EncodingHandler  `mapstructure:"-"` // Optional: defaults to the x/net charset handler
	LanguageDetector language.LanguageDetector `mapstructure:"-"` // Optional: defaults to go-enry
	TemplateExecutor tpl.TemplateExecutor      `mapstructure:"-"` // Optional: defaults to text/template
	CommandRunner    toolchain.CommandRunner   `mapstructure:"-"` // Required when a compile or flash command is enabled
	GitClient        git.GitClient             `mapstructure:"-"` // Required when Git.Commit is set
}

// --- END OF FINAL REVISED FILE pkg/converter/options.go ---
