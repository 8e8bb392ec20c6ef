// --- START OF NEW FILE pkg/converter/codemap/codemap.go ---
// Package codemap translates between QMK keystroke notation (SS_TAP(X_A),
// SS_LSFT(SS_TAP(X_1)), ...) and the literal characters those keystrokes type
// on a US layout. The mapping is best effort: only the characters needed by
// the macro catalog are encodable.
package codemap

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownName indicates a QMK key name with no known character.
	ErrUnknownName = errors.New("unknown QMK key name")

	// ErrUnencodableChar indicates a character with no QMK keystroke encoding.
	ErrUnencodableChar = errors.New("no QMK keystroke for character")
)

// Keystroke is a single simulated key press, optionally shift-modified.
type Keystroke struct {
	Name    string // QMK key name without the X_ prefix, e.g. "A", "1", "EQUAL"
	Shifted bool
}

// String renders the keystroke in SEND_STRING notation.
func (k Keystroke) String() string {
	tap := "SS_TAP(X_" + k.Name + ")"
	if k.Shifted {
		return "SS_LSFT(" + tap + ")"
	}
	return tap
}

// keyChars maps a named key to its unshifted and shifted characters.
var keyChars = map[string][2]rune{
	"EQUAL": {'=', '+'},
	"MINUS": {'-', '_'},
	"DOT":   {'.', '>'},
	"COMMA": {',', '<'},
	// Single character spellings used by some exports.
	"=": {'=', '+'},
	"-": {'-', '_'},
	".": {'.', '>'},
	",": {',', '<'},
}

// digitSymbols is the shifted top row of a US keyboard.
var digitSymbols = map[rune]rune{
	'1': '!',
	'2': '@',
	'3': '#',
	'4': '$',
	'5': '%',
	'6': '^',
	'7': '&',
	'8': '*',
	'9': '(',
	'0': ')',
}

// charKeys is the inverse of keyChars and digitSymbols, built once at init.
var charKeys = map[rune]Keystroke{}

func init() {
	for _, name := range []string{"EQUAL", "MINUS", "DOT", "COMMA"} {
		chars := keyChars[name]
		charKeys[chars[0]] = Keystroke{Name: name}
		charKeys[chars[1]] = Keystroke{Name: name, Shifted: true}
	}
	for digit, symbol := range digitSymbols {
		charKeys[symbol] = Keystroke{Name: string(digit), Shifted: true}
	}
}

// Decode returns the character typed by the named key.
func Decode(name string, shifted bool) (rune, error) {
	if len(name) == 1 {
		c := rune(name[0])
		switch {
		case c >= 'A' && c <= 'Z':
			if shifted {
				return c, nil
			}
			return c + ('a' - 'A'), nil
		case c >= '0' && c <= '9':
			if shifted {
				return digitSymbols[c], nil
			}
			return c, nil
		}
	}
	chars, ok := keyChars[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	if shifted {
		return chars[1], nil
	}
	return chars[0], nil
}

// Encode returns the keystroke that types c.
func Encode(c rune) (Keystroke, error) {
	switch {
	case c >= 'a' && c <= 'z':
		return Keystroke{Name: string(c - ('a' - 'A'))}, nil
	case c >= 'A' && c <= 'Z':
		return Keystroke{Name: string(c), Shifted: true}, nil
	case c >= '0' && c <= '9':
		return Keystroke{Name: string(c)}, nil
	}
	if k, ok := charKeys[c]; ok {
		return k, nil
	}
	return Keystroke{}, fmt.Errorf("%w: %q", ErrUnencodableChar, c)
}

// EncodeString encodes every character of s and joins the keystrokes with
// separator. The first unencodable character aborts the encoding.
func EncodeString(s, separator string) (string, error) {
	parts := make([]string, 0, len(s))
	for _, c := range s {
		k, err := Encode(c)
		if err != nil {
			return "", fmt.Errorf("encoding %q: %w", s, err)
		}
		parts = append(parts, k.String())
	}
	return strings.Join(parts, separator), nil
}

// --- END OF NEW FILE pkg/converter/codemap/codemap.go ---
