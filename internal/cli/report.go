// --- START OF NEW FILE internal/cli/report.go ---
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/stackvity/keymap-converter/pkg/converter"
)

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	reportOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	reportWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	reportErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// printReport writes the final report in the requested format. color only
// affects the text format.
func printReport(w io.Writer, report converter.Report, format converter.OutputFormat, color bool) error {
	switch format {
	case converter.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case converter.OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode YAML report: %w", err)
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, renderText(report, color))
		return err
	}
}

func renderText(report converter.Report, color bool) string {
	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}
	sum := report.Summary
	var b strings.Builder

	b.WriteString(paint(reportTitleStyle, "Keymap conversion report") + "\n")
	if sum.Archive != "" {
		fmt.Fprintf(&b, "  Archive:   %s", sum.Archive)
		if sum.CacheStatus != "" {
			fmt.Fprintf(&b, " (index: %s)", sum.CacheStatus)
		}
		b.WriteString("\n")
	}
	if sum.SourceDir != "" {
		fmt.Fprintf(&b, "  Source:    %s\n", sum.SourceDir)
	}
	if sum.ExportDir != "" {
		fmt.Fprintf(&b, "  Export:    %s\n", sum.ExportDir)
	}
	fmt.Fprintf(&b, "  Slots:     %d (matched %d, literal %d, ambiguous %d)\n",
		sum.SlotCount, sum.MatchedCount, sum.LiteralCount, sum.AmbiguousCount)
	if sum.CommitHash != "" {
		fmt.Fprintf(&b, "  Commit:    %s\n", sum.CommitHash)
	}
	if sum.DurationSeconds > 0 {
		fmt.Fprintf(&b, "  Duration:  %.2fs\n", sum.DurationSeconds)
	}

	if len(report.Steps) > 0 {
		b.WriteString("\n" + paint(reportTitleStyle, "Steps") + "\n")
		for _, s := range report.Steps {
			status := string(s.Status)
			switch s.Status {
			case converter.StatusSuccess, converter.StatusCached:
				status = paint(reportOKStyle, status)
			case converter.StatusFailed:
				status = paint(reportErrStyle, status)
			case converter.StatusSkipped:
				status = paint(reportWarnStyle, status)
			}
			fmt.Fprintf(&b, "  %-10s %s", s.Step, status)
			if s.Message != "" {
				fmt.Fprintf(&b, "  %s", s.Message)
			}
			b.WriteString("\n")
		}
	}

	var literal []converter.SlotInfo
	for _, s := range report.Slots {
		if !s.Matched {
			literal = append(literal, s)
		}
	}
	if len(literal) > 0 {
		b.WriteString("\n" + paint(reportTitleStyle, "Left as literal text") + "\n")
		for _, s := range literal {
			fmt.Fprintf(&b, "  #%d line %d %q", s.Ordinal, s.Line, s.Text)
			if s.Note != "" {
				fmt.Fprintf(&b, ": %s", s.Note)
			}
			b.WriteString("\n")
		}
	}

	if len(report.Errors) > 0 {
		b.WriteString("\n" + paint(reportTitleStyle, "Problems") + "\n")
		for _, e := range report.Errors {
			label := paint(reportWarnStyle, "warning")
			if e.IsFatal {
				label = paint(reportErrStyle, "error")
			}
			fmt.Fprintf(&b, "  %s [%s] %s\n", label, e.Step, e.Error)
		}
	}
	return b.String()
}

// --- END OF NEW FILE internal/cli/report.go ---
