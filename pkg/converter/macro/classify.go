// --- START OF NEW FILE pkg/converter/macro/classify.go ---
package macro

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stackvity/keymap-converter/pkg/converter/catalog"
)

// Classification is the outcome for one slot. Matched is false for slots that
// stay literal user macros.
type Classification struct {
	Slot       Slot
	Matched    bool
	Ref        catalog.Ref
	Candidates []catalog.Ref // every entry that matched, in enumeration order
	Diagnostic error         // non-fatal note (ambiguity, decode failure, no match)
}

// Ambiguous reports whether more than one catalog entry matched.
func (c Classification) Ambiguous() bool { return len(c.Candidates) > 1 }

// Classifications is indexed by slot ordinal.
type Classifications []Classification

// Lookup returns the classification of the given ordinal.
func (cs Classifications) Lookup(ordinal int) (Classification, bool) {
	if ordinal < 0 || ordinal >= len(cs) {
		return Classification{}, false
	}
	return cs[ordinal], true
}

// Unmatched returns the ordinals of the literal slots in ascending order.
func (cs Classifications) Unmatched() []int {
	var out []int
	for _, c := range cs {
		if !c.Matched {
			out = append(out, c.Slot.Ordinal)
		}
	}
	return out
}

// Classifier matches decoded macro text against catalogs in priority order.
type Classifier struct {
	logger *slog.Logger
	strict bool
	tables []catalog.Table
}

// NewClassifier creates a Classifier over tables, or over catalog.Tables()
// when none are given. With strict set, a slot matching nothing is an error.
func NewClassifier(loggerHandler slog.Handler, strict bool, tables ...catalog.Table) *Classifier {
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	if len(tables) == 0 {
		tables = catalog.Tables()
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "macroClassifier"))
	return &Classifier{logger: logger, strict: strict, tables: tables}
}

// Match finds the entries whose canonical text starts with text, searching
// each table in turn and stopping at the first table with any match. The
// returned ref is the first candidate. Empty text never matches.
func (c *Classifier) Match(text string) (ref catalog.Ref, candidates []catalog.Ref, ok bool) {
	if text == "" {
		return catalog.Ref{}, nil, false
	}
	text = strings.ToLower(text)
	for _, table := range c.tables {
		for _, entry := range table.Entries {
			if strings.HasPrefix(strings.ToLower(entry.Text()), text) {
				candidates = append(candidates, entry)
			}
		}
		if len(candidates) > 0 {
			return candidates[0], candidates, true
		}
		c.logger.Debug("No entry matches macro text, trying next catalog",
			slog.String("text", text), slog.String("catalog", table.Kind.String()))
	}
	return catalog.Ref{}, nil, false
}

// Classify classifies every slot. The result has one entry per slot, in
// ordinal order.
func (c *Classifier) Classify(slots []Slot) (Classifications, error) {
	out := make(Classifications, 0, len(slots))
	for _, slot := range slots {
		result := Classification{Slot: slot}
		logArgs := []any{slog.Int("slot", slot.Ordinal), slog.Int("line", slot.Line)}

		switch {
		case !slot.Decoded():
			result.Diagnostic = slot.Err
		case slot.Text == "":
			result.Diagnostic = fmt.Errorf("%w: macro types nothing", ErrNoCatalogMatch)
			c.logger.Warn("Macro decodes to empty text, keeping it literal", logArgs...)
		default:
			ref, candidates, ok := c.Match(slot.Text)
			logArgs = append(logArgs, slog.String("text", slot.Text))
			if !ok {
				if c.strict {
					c.logger.Error("No catalog entry matches macro", logArgs...)
					return nil, fmt.Errorf("macro slot %d (line %d): %w: %q", slot.Ordinal, slot.Line, ErrNoCatalogMatch, slot.Text)
				}
				result.Diagnostic = fmt.Errorf("%w: %q", ErrNoCatalogMatch, slot.Text)
				c.logger.Info("No catalog entry matches macro, using it literally", logArgs...)
				break
			}
			result.Matched = true
			result.Ref = ref
			result.Candidates = candidates
			if len(candidates) > 1 {
				result.Diagnostic = fmt.Errorf("%w: %q matches %v, using %s", ErrAmbiguousCatalogMatch, slot.Text, candidates, ref.Name())
				c.logger.Warn("Multiple catalog matches for macro, using the first",
					append(logArgs, slog.Any("candidates", candidates), slog.String("using", ref.String()))...)
			} else {
				c.logger.Info("Matched macro", append(logArgs, slog.String("entry", ref.String()))...)
			}
		}
		out = append(out, result)
	}
	return out, nil
}

// --- END OF NEW FILE pkg/converter/macro/classify.go ---
