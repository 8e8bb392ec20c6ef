// --- START OF NEW FILE pkg/converter/section/splitter.go ---
package section

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const maxLineBytes = 1024 * 1024

// Regions is the partitioned keymap. Every slice holds lines without their
// terminating newline.
type Regions struct {
	Retained  []string
	Side      []string
	Keymap    []string
	MacroDefs []string

	// KeymapLine and MacroDefsLine are the 1-based input lines of the first
	// line of each accumulator (zero when never reached).
	KeymapLine    int
	MacroDefsLine int

	// Final is the section the input ended in; Lines counts input lines.
	Final Section
	Lines int
}

// MacroDefsText returns the accumulated process_record_user block with a
// newline after every line.
func (r *Regions) MacroDefsText() string { return joinLines(r.MacroDefs) }

// KeymapText returns the accumulated keymap with a newline after every line.
func (r *Regions) KeymapText() string { return joinLines(r.Keymap) }

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Splitter drives Transition over a whole input.
type Splitter struct {
	logger *slog.Logger
}

// NewSplitter creates a Splitter logging through loggerHandler.
func NewSplitter(loggerHandler slog.Handler) *Splitter {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Splitter{logger: slog.New(loggerHandler).With(slog.String("component", "sectionSplitter"))}
}

// Split partitions input. Lines may end in "\n" or "\r\n". The input must reach
// the tap dance definitions, otherwise ErrMalformedSectionOrder is returned
// naming the section the input stopped in.
func (s *Splitter) Split(input io.Reader) (*Regions, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	r := &Regions{Final: Preprocessing}
	for scanner.Scan() {
		r.Lines++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		next, actions := Transition(r.Final, line)
		for _, a := range actions {
			switch a.Stream {
			case Retained:
				r.Retained = append(r.Retained, a.Text)
			case Side:
				r.Side = append(r.Side, a.Text)
			case KeymapAcc:
				if r.KeymapLine == 0 {
					r.KeymapLine = r.Lines
				}
				r.Keymap = append(r.Keymap, a.Text)
			case MacroAcc:
				if r.MacroDefsLine == 0 {
					r.MacroDefsLine = r.Lines
				}
				r.MacroDefs = append(r.MacroDefs, a.Text)
			}
		}
		if next != r.Final {
			s.logger.Debug("Entering section", slog.String("section", next.String()), slog.Int("line", r.Lines))
			r.Final = next
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading keymap at line %d: %w", r.Lines+1, err)
	}
	if !r.Final.Terminal() {
		s.logger.Error("Keymap ended early", slog.String("section", r.Final.String()), slog.Int("lines", r.Lines))
		return nil, fmt.Errorf("%w: input ended in section %s after %d lines, expecting %q",
			ErrMalformedSectionOrder, r.Final, r.Lines, markerAfter(r.Final))
	}
	return r, nil
}

// markerAfter names the marker line that ends section s.
func markerAfter(s Section) string {
	switch s {
	case Preprocessing:
		return MacroEnumMarker
	case MacroEnum:
		return TapDanceEnumMarker
	case TapDanceEnum:
		return KeymapMarker
	case Keymap:
		return RGBSetupMarker
	case RGBSetup:
		return MacroDefsMarker
	case MacroDefs:
		return TapDanceSetupMarker
	case TapDanceSetup:
		return TapDanceDefsPrefix
	}
	return ""
}

// --- END OF NEW FILE pkg/converter/section/splitter.go ---
