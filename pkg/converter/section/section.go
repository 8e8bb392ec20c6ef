// --- START OF NEW FILE pkg/converter/section/section.go ---
// Package section partitions an Oryx keymap.c into its structural regions.
//
// The splitter is a forward-only state machine over eight sections. Each
// section has one marker line that ends it; every input line is routed to one
// output stream (or dropped) by the pure Transition function, so the machine
// can be tested without any I/O.
package section

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSectionOrder indicates the input ended before the tap dance
// definitions were reached, i.e. some marker line was missing or reordered.
var ErrMalformedSectionOrder = errors.New("keymap sections missing or out of order")

// Section is one structural region of keymap.c, in file order.
type Section int

const (
	Preprocessing Section = iota // includes and defines
	MacroEnum                    // enum custom_keycodes (dropped; regenerated)
	TapDanceEnum                 // enum tap_dance_codes (side file)
	Keymap                       // keymaps[][] through the rgb_matrix_config extern
	RGBSetup                     // LED map and rgb_matrix_indicators
	MacroDefs                    // process_record_user
	TapDanceSetup                // tap dance state typedefs
	TapDanceDefs                 // tap dance functions (side file), terminal
)

var sectionNames = [...]string{
	"Preprocessing", "MacroEnum", "TapDanceEnum", "Keymap",
	"RGBSetup", "MacroDefs", "TapDanceSetup", "TapDanceDefs",
}

// String implements fmt.Stringer.
func (s Section) String() string {
	if s < Preprocessing || s > TapDanceDefs {
		return fmt.Sprintf("Section(%d)", int(s))
	}
	return sectionNames[s]
}

// Terminal reports whether s is the final section.
func (s Section) Terminal() bool { return s == TapDanceDefs }

// Marker lines. All but TapDanceDefsPrefix must match a whole line.
const (
	MacroEnumMarker     = "enum custom_keycodes {"
	TapDanceEnumMarker  = "enum tap_dance_codes {"
	KeymapMarker        = "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {"
	RGBSetupMarker      = "extern rgb_config_t rgb_matrix_config;"
	MacroDefsMarker     = "bool process_record_user(uint16_t keycode, keyrecord_t *record) {"
	TapDanceSetupMarker = "typedef struct {"
	TapDanceDefsPrefix  = "static tap dance_state"
)

// MacrosInclude replaces the vendor's custom keycode enum in the retained stream.
const MacrosInclude = `#include "petkau_macros.inl"`

// Stream is the destination of a routed line.
type Stream int

const (
	Dropped   Stream = iota
	Retained         // written to the new keymap.c in order
	Side             // written to petkau_tap_dance.inl
	KeymapAcc        // accumulated keymap, rewritten before emission
	MacroAcc         // accumulated process_record_user, rewritten before emission
)

// Action routes one line of text to a stream.
type Action struct {
	Stream Stream
	Text   string
}

// Transition consumes one line in section s and returns the next section and
// the actions the line produces. It never moves backwards.
func Transition(s Section, line string) (Section, []Action) {
	switch s {
	case Preprocessing:
		if line == MacroEnumMarker {
			return MacroEnum, []Action{{Retained, MacrosInclude}}
		}
		return s, []Action{{Retained, line}}
	case MacroEnum:
		if line == TapDanceEnumMarker {
			return TapDanceEnum, []Action{{Side, line}}
		}
		return s, []Action{{Dropped, line}}
	case TapDanceEnum:
		if line == KeymapMarker {
			return Keymap, []Action{{KeymapAcc, line}}
		}
		return s, []Action{{Side, line}}
	case Keymap:
		if line == RGBSetupMarker {
			return RGBSetup, []Action{{KeymapAcc, line}}
		}
		return s, []Action{{KeymapAcc, line}}
	case RGBSetup:
		if line == MacroDefsMarker {
			return MacroDefs, []Action{{MacroAcc, line}}
		}
		return s, []Action{{Retained, line}}
	case MacroDefs:
		if line == TapDanceSetupMarker {
			return TapDanceSetup, []Action{{Retained, line}}
		}
		return s, []Action{{MacroAcc, line}}
	case TapDanceSetup:
		if strings.HasPrefix(line, TapDanceDefsPrefix) {
			return TapDanceDefs, []Action{{Side, line}}
		}
		return s, []Action{{Retained, line}}
	default:
		return TapDanceDefs, []Action{{Side, line}}
	}
}

// --- END OF NEW FILE pkg/converter/section/section.go ---
