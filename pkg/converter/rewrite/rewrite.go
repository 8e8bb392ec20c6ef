// --- START OF NEW FILE pkg/converter/rewrite/rewrite.go ---
// Package rewrite applies macro classifications to a split keymap and
// assembles the new keymap.c and petkau_tap_dance.inl texts.
package rewrite

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/stackvity/keymap-converter/pkg/converter/macro"
	"github.com/stackvity/keymap-converter/pkg/converter/section"
)

// ErrMissingSlotReference indicates an ST_MACRO_n whose ordinal has no
// extracted macro, which means the keymap was edited or comes from an
// incompatible exporter version.
var ErrMissingSlotReference = errors.New("macro reference without a macro definition")

// Include directives emitted after the retained regions, in order.
var Includes = []string{
	`#include "petkau_tapping_term.inl"`,
	`#include "petkau_tap_dance.inl"`,
	`#include "process_record_petkau.inl"`,
}

// DefaultDispatch replaces the RGB_SLD case of process_record_user.
const DefaultDispatch = "default: return process_record_petkau(keycode, record);\n"

var (
	casePattern      = regexp.MustCompile(`case ST_MACRO_(\d+):[[:space:]]+if \(record->event\.pressed\) \{[[:space:]]+SEND_STRING\(.+\);[[:space:]]+\}[[:space:]]+break;[[:space:]]+`)
	sentinelPattern  = regexp.MustCompile(`(?s:case RGB_SLD:(?:.+)return false;\n)`)
	referencePattern = regexp.MustCompile(`ST_MACRO_(\d+)`)
)

// Result holds the rewritten artifacts.
type Result struct {
	Keymap   string // new keymap.c
	TapDance string // petkau_tap_dance.inl
	Literal  []int  // ordinals re-enumerated as custom keycodes
}

// Rewriter assembles output texts from regions and classifications.
type Rewriter struct {
	logger *slog.Logger
}

// NewRewriter creates a Rewriter logging through loggerHandler.
func NewRewriter(loggerHandler slog.Handler) *Rewriter {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &Rewriter{logger: slog.New(loggerHandler).With(slog.String("component", "rewriter"))}
}

// Rewrite builds the new keymap.c and the tap dance side file.
func (w *Rewriter) Rewrite(r *section.Regions, cls macro.Classifications) (*Result, error) {
	defs, err := w.RemoveMatchedCases(r.MacroDefsText(), r.MacroDefsLine, cls)
	if err != nil {
		return nil, err
	}
	defs = w.ForwardDefault(defs)

	keymap, err := w.SubstituteReferences(r.KeymapText(), r.KeymapLine, cls)
	if err != nil {
		return nil, err
	}

	literal := cls.Unmatched()
	var b strings.Builder
	for _, line := range r.Retained {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, inc := range Includes {
		b.WriteString(inc)
		b.WriteByte('\n')
	}
	if len(literal) > 0 {
		b.WriteByte('\n')
		b.WriteString(LiteralEnum(literal))
	}
	b.WriteByte('\n')
	b.WriteString(defs)
	b.WriteString(keymap)

	var side strings.Builder
	for _, line := range r.Side {
		side.WriteString(line)
		side.WriteByte('\n')
	}

	w.logger.Info("Rewrote keymap",
		slog.Int("slots", len(cls)), slog.Int("matched", len(cls)-len(literal)), slog.Int("literal", len(literal)))
	return &Result{Keymap: b.String(), TapDance: side.String(), Literal: literal}, nil
}

// RemoveMatchedCases deletes the case block of every matched slot from the
// process_record_user text. firstLine is the input line of defs' first line.
func (w *Rewriter) RemoveMatchedCases(defs string, firstLine int, cls macro.Classifications) (string, error) {
	var firstErr error
	out := replaceAllSubmatchFunc(casePattern, defs, func(match string, groups []string, offset int) string {
		ordinal, c, err := lookup(cls, groups[1])
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("case at line %d: %w", firstLine+strings.Count(defs[:offset], "\n"), err)
			}
			return match
		}
		if !c.Matched {
			return match
		}
		w.logger.Debug("Removed macro case", slog.Int("slot", ordinal), slog.String("entry", c.Ref.String()))
		return ""
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ForwardDefault replaces the RGB_SLD case with the petkau dispatch.
func (w *Rewriter) ForwardDefault(defs string) string {
	loc := sentinelPattern.FindStringIndex(defs)
	if loc == nil {
		w.logger.Warn("No RGB_SLD case in process_record_user; catalog macros will not be dispatched")
		return defs
	}
	return defs[:loc[0]] + DefaultDispatch + defs[loc[1]:]
}

// SubstituteReferences replaces every ST_MACRO_n of a matched slot in the
// keymap with the catalog identifier. Literal slots keep their token.
func (w *Rewriter) SubstituteReferences(keymap string, firstLine int, cls macro.Classifications) (string, error) {
	var firstErr error
	out := replaceAllSubmatchFunc(referencePattern, keymap, func(match string, groups []string, offset int) string {
		_, c, err := lookup(cls, groups[1])
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("keymap line %d: %w", firstLine+strings.Count(keymap[:offset], "\n"), err)
			}
			return match
		}
		if !c.Matched {
			return match
		}
		return c.Ref.Identifier()
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// LiteralEnum renders the custom keycode enum of the literal slots.
func LiteralEnum(ordinals []int) string {
	entries := make([]string, len(ordinals))
	for i, o := range ordinals {
		entries[i] = "\tST_MACRO_" + strconv.Itoa(o)
	}
	return "enum custom_keycodes\n{\n" + strings.Join(entries, ",\n") + "\n};\n"
}

func lookup(cls macro.Classifications, digits string) (int, macro.Classification, error) {
	ordinal, err := strconv.Atoi(digits)
	if err != nil {
		return 0, macro.Classification{}, fmt.Errorf("%w: ST_MACRO_%s", ErrMissingSlotReference, digits)
	}
	c, ok := cls.Lookup(ordinal)
	if !ok {
		return ordinal, c, fmt.Errorf("%w: ST_MACRO_%d (%d macros defined)", ErrMissingSlotReference, ordinal, len(cls))
	}
	return ordinal, c, nil
}

// replaceAllSubmatchFunc is regexp.ReplaceAllStringFunc with access to the
// submatches and the byte offset of each match.
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, repl func(match string, groups []string, offset int) string) string {
	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(s[last:loc[0]])
		b.WriteString(repl(groups[0], groups, loc[0]))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// --- END OF NEW FILE pkg/converter/rewrite/rewrite.go ---
