// --- START OF NEW FILE internal/testutil/keymap.go ---
package testutil

import (
	"fmt"
	"strings"

	"github.com/stackvity/keymap-converter/pkg/converter/codemap"
)

// OryxKeymap renders a keymap.c in the layout Oryx exports, with one
// ST_MACRO_n per sendString argument (the text between SEND_STRING's
// parentheses). Every macro is referenced from both layers of the keymap.
func OryxKeymap(sendStrings ...string) string {
	var b strings.Builder
	b.WriteString(OryxPreprocessing)
	b.WriteString("enum custom_keycodes {\n  RGB_SLD = ML_SAFE_RANGE,\n")
	for i := range sendStrings {
		fmt.Fprintf(&b, "  ST_MACRO_%d,\n", i)
	}
	b.WriteString("};\n\n\n\n")
	b.WriteString(OryxTapDanceEnum)
	b.WriteString(OryxKeymapBody(len(sendStrings)))
	b.WriteString(OryxRGBSetup)
	b.WriteString(OryxMacroDefs(sendStrings...))
	b.WriteString(OryxTapDanceSetup)
	b.WriteString(OryxTapDanceDefs)
	return b.String()
}

// OryxPreprocessing is the region before the custom keycode enum.
const OryxPreprocessing = `#include QMK_KEYBOARD_H
#include "version.h"
#define MOON_LED_LEVEL LED_LEVEL
#define ML_SAFE_RANGE SAFE_RANGE

`

// OryxTapDanceEnum starts at the tap dance enum and runs up to the keymap.
const OryxTapDanceEnum = `enum tap_dance_codes {
  DANCE_0,
};

`

// OryxKeymapBody renders the keymap array, through the rgb_matrix_config
// extern, referencing macros 0..n-1 on both layers.
func OryxKeymapBody(n int) string {
	refs := make([]string, n)
	for i := range refs {
		refs[i] = fmt.Sprintf("ST_MACRO_%d", i)
	}
	row := "KC_ESCAPE, KC_1, TD(DANCE_0)"
	if n > 0 {
		row += ", " + strings.Join(refs, ", ")
	}
	return "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {\n" +
		"  [0] = LAYOUT_moonlander(\n    " + row + ", KC_TRANSPARENT\n  ),\n" +
		"  [1] = LAYOUT_moonlander(\n    " + row + ", KC_NO\n  ),\n" +
		"};\n\n" +
		"extern rgb_config_t rgb_matrix_config;\n"
}

// OryxRGBSetup is the region between the keymap and process_record_user.
const OryxRGBSetup = `
void keyboard_post_init_user(void) {
  rgb_matrix_enable();
}

`

// OryxMacroDefs renders process_record_user with one case per macro followed
// by the RGB_SLD case.
func OryxMacroDefs(sendStrings ...string) string {
	var b strings.Builder
	b.WriteString("bool process_record_user(uint16_t keycode, keyrecord_t *record) {\n  switch (keycode) {\n")
	for i, s := range sendStrings {
		fmt.Fprintf(&b, "    case ST_MACRO_%d:\n    if (record->event.pressed) {\n      SEND_STRING(%s);\n    }\n    break;\n\n", i, s)
	}
	b.WriteString(OryxRGBSLDCase)
	b.WriteString("  }\n  return true;\n}\n\n")
	return b.String()
}

// OryxRGBSLDCase is the sentinel case replaced by the petkau dispatch.
const OryxRGBSLDCase = `    case RGB_SLD:
      if (record->event.pressed) {
        rgblight_mode(1);
      }
      return false;
`

// OryxTapDanceSetup runs from the typedef marker to the dance state array.
const OryxTapDanceSetup = `typedef struct {
    bool is_press_action;
    uint8_t step;
} tap;

enum {
    SINGLE_TAP = 1,
    SINGLE_HOLD,
    DOUBLE_TAP,
};

`

// OryxTapDanceDefs runs from the dance state array to the end of the file.
const OryxTapDanceDefs = `static tap dance_state[1];

uint8_t dance_step(tap_dance_state_t *state);

void on_dance_0(tap_dance_state_t *state, void *user_data) {
    if(state->count == 3) {
        tap_code16(KC_A);
    }
}

tap_dance_action_t tap_dance_actions[] = {
        [DANCE_0] = ACTION_TAP_DANCE_FN_ADVANCED(on_dance_0, dance_0_finished, dance_0_reset),
};
`

// SendString joins keystroke annotations with the 100ms delay Oryx inserts
// between taps.
func SendString(keys ...string) string {
	return strings.Join(keys, " SS_DELAY(100) ")
}

// Typed returns the SEND_STRING argument Oryx generates for text. It panics
// on characters the codemap cannot encode.
func Typed(text string) string {
	s, err := codemap.EncodeString(text, " SS_DELAY(100) ")
	if err != nil {
		panic(err)
	}
	return s
}

// --- END OF NEW FILE internal/testutil/keymap.go ---
