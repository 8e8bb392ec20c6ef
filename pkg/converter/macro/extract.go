// --- START OF NEW FILE pkg/converter/macro/extract.go ---
// Package macro extracts the user macros (SEND_STRING bodies) of a keymap's
// process_record_user block and classifies them against the fixed catalogs.
package macro

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/stackvity/keymap-converter/pkg/converter/codemap"
)

var (
	// ErrControlModifierUnsupported indicates a macro that holds Ctrl, which
	// no catalog entry can express.
	ErrControlModifierUnsupported = errors.New("macro uses a control modifier")

	// ErrNoCatalogMatch indicates a macro matching no entry of any catalog.
	// Only returned by the strict policy; otherwise the slot stays literal.
	ErrNoCatalogMatch = errors.New("macro matches no catalog entry")

	// ErrAmbiguousCatalogMatch is informational: several entries matched and
	// the first in enumeration order was used. Never returned as a failure.
	ErrAmbiguousCatalogMatch = errors.New("macro matches several catalog entries")
)

var (
	sendStringPattern = regexp.MustCompile(`SEND_STRING\((.+)\);\n`)
	controlPattern    = regexp.MustCompile(`SS_(?:L|R)CTL\(`)
	keystrokePattern  = regexp.MustCompile(`SS_(?:L|R)SFT\(SS_TAP\(X_([[:alnum:]_]+)\)\)|SS_TAP\(X_([[:alnum:]_]+)\)`)
)

// Slot is one user macro, numbered in order of appearance. The ordinal is the
// n of the ST_MACRO_n keycode the vendor assigned to it.
type Slot struct {
	Ordinal int
	Line    int    // 1-based input line of the SEND_STRING call
	Source  string // SEND_STRING argument as written
	Text    string // decoded, lowercased; empty when Err is set
	Err     error  // why the slot could not be decoded; it then stays literal
}

// Decoded reports whether the slot's text is usable for catalog matching.
func (s Slot) Decoded() bool { return s.Err == nil }

// Extractor decodes SEND_STRING bodies into literal text.
type Extractor struct {
	logger *slog.Logger
	strict bool
}

// NewExtractor creates an Extractor. With strict set, an undecodable macro
// aborts extraction instead of being kept as a literal slot.
func NewExtractor(loggerHandler slog.Handler, strict bool) *Extractor {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "macroExtractor"))
	return &Extractor{logger: logger, strict: strict}
}

// Extract returns one Slot per SEND_STRING call in block, in source order.
// firstLine is the input line number of the block's first line.
func (e *Extractor) Extract(block string, firstLine int) ([]Slot, error) {
	matches := sendStringPattern.FindAllStringSubmatchIndex(block, -1)
	slots := make([]Slot, 0, len(matches))
	for ordinal, m := range matches {
		slot := Slot{
			Ordinal: ordinal,
			Line:    firstLine + strings.Count(block[:m[0]], "\n"),
			Source:  block[m[2]:m[3]],
		}
		text, err := decode(slot.Source)
		if err != nil {
			if e.strict {
				e.logger.Error("Macro cannot be decoded", slog.Int("slot", ordinal), slog.Int("line", slot.Line), slog.Any("error", err))
				return nil, fmt.Errorf("macro slot %d (line %d): %w", ordinal, slot.Line, err)
			}
			e.logger.Warn("Macro cannot be decoded, keeping it literal",
				slog.Int("slot", ordinal), slog.Int("line", slot.Line), slog.String("error", err.Error()))
			slot.Err = err
		} else {
			slot.Text = text
			e.logger.Debug("Decoded macro", slog.Int("slot", ordinal), slog.String("text", text))
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// decode turns a SEND_STRING argument into lowercase literal text.
func decode(source string) (string, error) {
	if controlPattern.MatchString(source) {
		return "", ErrControlModifierUnsupported
	}
	var sb strings.Builder
	for _, m := range keystrokePattern.FindAllStringSubmatch(source, -1) {
		name, shifted := m[2], false
		if m[1] != "" {
			name, shifted = m[1], true
		}
		c, err := codemap.Decode(name, shifted)
		if err != nil {
			return "", err
		}
		sb.WriteRune(c)
	}
	return strings.ToLower(sb.String()), nil
}

// --- END OF NEW FILE pkg/converter/macro/extract.go ---
