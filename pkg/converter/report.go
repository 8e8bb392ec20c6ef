// --- START OF FINAL REVISED FILE pkg/converter/report.go ---
package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/stackvity/keymap-converter/pkg/converter/macro"
)

// Report summarizes the result of a single Convert run.
type Report struct {
	Summary   ReportSummary  `json:"summary" yaml:"summary"`
	Steps     []StepInfo     `json:"steps" yaml:"steps"`
	Slots     []SlotInfo     `json:"slots" yaml:"slots"`
	Artifacts []ArtifactInfo `json:"artifacts" yaml:"artifacts"`
	Errors    []ErrorInfo    `json:"errors" yaml:"errors"`
}

// ReportSummary contains aggregated statistics for a Convert run.
type ReportSummary struct {
	SourceDir          string    `json:"sourceDir" yaml:"sourceDir"`
	ExportDir          string    `json:"exportDir" yaml:"exportDir"`
	Archive            string    `json:"archive,omitempty" yaml:"archive,omitempty"`
	CacheStatus        string    `json:"cacheStatus,omitempty" yaml:"cacheStatus,omitempty"`
	ProfileUsed        string    `json:"profileUsed,omitempty" yaml:"profileUsed,omitempty"`
	ConfigFilePath     string    `json:"configFilePath,omitempty" yaml:"configFilePath,omitempty"`
	Strict             bool      `json:"strict" yaml:"strict"`
	SourceEncoding     string    `json:"sourceEncoding,omitempty" yaml:"sourceEncoding,omitempty"`
	SlotCount          int       `json:"slotCount" yaml:"slotCount"`
	MatchedCount       int       `json:"matchedCount" yaml:"matchedCount"`
	LiteralCount       int       `json:"literalCount" yaml:"literalCount"`
	AmbiguousCount     int       `json:"ambiguousCount" yaml:"ambiguousCount"`
	WarningCount       int       `json:"warningCount" yaml:"warningCount"`
	ErrorCount         int       `json:"errorCount" yaml:"errorCount"`
	FatalErrorOccurred bool      `json:"fatalError" yaml:"fatalError"`
	CommitHash         string    `json:"commitHash,omitempty" yaml:"commitHash,omitempty"`
	DurationSeconds    float64   `json:"durationSeconds" yaml:"durationSeconds"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
	SchemaVersion      string    `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`
}

// StepInfo records the outcome of one pipeline step.
type StepInfo struct {
	Step       Step   `json:"step" yaml:"step"`
	Status     Status `json:"status" yaml:"status"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	DurationMs int64  `json:"durationMs" yaml:"durationMs"`
}

// SlotInfo details how one macro slot was classified.
type SlotInfo struct {
	Ordinal    int      `json:"ordinal" yaml:"ordinal"`
	Line       int      `json:"line" yaml:"line"`
	Text       string   `json:"text" yaml:"text"`
	Matched    bool     `json:"matched" yaml:"matched"`
	Identifier string   `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Note       string   `json:"note,omitempty" yaml:"note,omitempty"`
}

// ArtifactInfo details one written output file.
type ArtifactInfo struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	SizeBytes int64  `json:"sizeBytes" yaml:"sizeBytes"`
}

// ErrorInfo details an error or warning raised by a step.
type ErrorInfo struct {
	Step    Step   `json:"step" yaml:"step"`
	Error   string `json:"error" yaml:"error"`
	IsFatal bool   `json:"isFatal" yaml:"isFatal"`
}

// NewSlotInfos converts classifications for the report. Slots with a
// diagnostic carry it as a note.
func NewSlotInfos(cls macro.Classifications) []SlotInfo {
	infos := make([]SlotInfo, 0, len(cls))
	for _, c := range cls {
		info := SlotInfo{Ordinal: c.Slot.Ordinal, Line: c.Slot.Line, Text: c.Slot.Text, Matched: c.Matched}
		if c.Matched {
			info.Identifier = c.Ref.Identifier()
		}
		if c.Ambiguous() {
			for _, cand := range c.Candidates {
				info.Candidates = append(info.Candidates, cand.Identifier())
			}
		}
		if c.Diagnostic != nil {
			info.Note = c.Diagnostic.Error()
		}
		infos = append(infos, info)
	}
	return infos
}

// ExampleSlotInfo provides an example of how SlotInfo might be populated.
func ExampleSlotInfo() { // minimal comment
	info := SlotInfo{
		Ordinal:    3,
		Line:       214,
		Text:       "re",
		Matched:    true,
		Identifier: "PETKAU_MACRO_Return",
		Candidates: []string{"PETKAU_MACRO_Return", "PETKAU_MACRO_ReinterpretCast"},
		Note:       `macro matches several catalog entries: "re" matches [...], using Return`,
	}
	data, _ := json.MarshalIndent(info, "", "  ")
	fmt.Println(string(data))
}

// --- END OF FINAL REVISED FILE pkg/converter/report.go ---
