// --- START OF FINAL REVISED FILE pkg/converter/types.go ---
package converter

// Status defines the possible states of a pipeline step.
type Status string

// Constants representing the defined step statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusSkipped    Status = "skipped"
	StatusCached     Status = "cached"
)

// Step names one stage of a conversion run.
type Step string

// Steps in the order Convert runs them. Compile, flash and commit are
// skipped when not configured.
const (
	StepRead      Step = "read"
	StepTransform Step = "transform"
	StepCatalog   Step = "catalog"
	StepWrite     Step = "write"
	StepCompile   Step = "compile"
	StepFlash     Step = "flash"
	StepCommit    Step = "commit"
)

// Steps returns every step in run order.
func Steps() []Step {
	return []Step{StepRead, StepTransform, StepCatalog, StepWrite, StepCompile, StepFlash, StepCommit}
}

// OutputFormat defines the format for the final summary report printed to standard output when TUI is disabled.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// --- END OF FINAL REVISED FILE pkg/converter/types.go ---
