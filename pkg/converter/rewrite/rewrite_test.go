package rewrite_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stackvity/keymap-converter/internal/testutil"
	"github.com/stackvity/keymap-converter/pkg/converter/catalog"
	"github.com/stackvity/keymap-converter/pkg/converter/macro"
	"github.com/stackvity/keymap-converter/pkg/converter/rewrite"
	"github.com/stackvity/keymap-converter/pkg/converter/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipeline runs split, extract and classify over a generated keymap.
func pipeline(t *testing.T, sendStrings ...string) (*section.Regions, macro.Classifications) {
	t.Helper()
	r, err := section.NewSplitter(nil).Split(strings.NewReader(testutil.OryxKeymap(sendStrings...)))
	require.NoError(t, err)
	slots, err := macro.NewExtractor(nil, false).Extract(r.MacroDefsText(), r.MacroDefsLine)
	require.NoError(t, err)
	cls, err := macro.NewClassifier(nil, false).Classify(slots)
	require.NoError(t, err)
	return r, cls
}

func TestRewrite_NullPtrRoundTrip(t *testing.T) {
	r, cls := pipeline(t, testutil.Typed("nullptr"))

	res, err := rewrite.NewRewriter(nil).Rewrite(r, cls)
	require.NoError(t, err)

	assert.NotContains(t, res.Keymap, "ST_MACRO_")
	assert.NotContains(t, res.Keymap, "enum custom_keycodes")
	assert.Empty(t, res.Literal)
	assert.Equal(t, 2, strings.Count(res.Keymap, catalog.NullPtr.Identifier()))
}

func TestRewrite_FullOutput(t *testing.T) {
	hello := testutil.SendString("SS_TAP(X_H)", "SS_TAP(X_I)")
	r, cls := pipeline(t, testutil.Typed("void"), hello, testutil.Typed("dt_up"))

	res, err := rewrite.NewRewriter(nil).Rewrite(r, cls)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Literal)

	want := testutil.OryxPreprocessing +
		section.MacrosInclude + "\n" +
		testutil.OryxRGBSetup +
		testutil.OryxTapDanceSetup +
		"#include \"petkau_tapping_term.inl\"\n" +
		"#include \"petkau_tap_dance.inl\"\n" +
		"#include \"process_record_petkau.inl\"\n" +
		"\n" +
		"enum custom_keycodes\n{\n\tST_MACRO_1\n};\n" +
		"\n" +
		"bool process_record_user(uint16_t keycode, keyrecord_t *record) {\n" +
		"  switch (keycode) {\n" +
		"    case ST_MACRO_1:\n" +
		"    if (record->event.pressed) {\n" +
		"      SEND_STRING(" + hello + ");\n" +
		"    }\n" +
		"    break;\n" +
		"\n" +
		"    default: return process_record_petkau(keycode, record);\n" +
		"  }\n" +
		"  return true;\n" +
		"}\n" +
		"\n" +
		strings.NewReplacer("ST_MACRO_0", "PETKAU_MACRO_Void", "ST_MACRO_2", "DT_UP").Replace(testutil.OryxKeymapBody(3))

	if diff := cmp.Diff(want, res.Keymap); diff != "" {
		t.Errorf("keymap.c mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, testutil.OryxTapDanceEnum+testutil.OryxTapDanceDefs, res.TapDance)
}

func TestRewrite_NoMacros(t *testing.T) {
	r, cls := pipeline(t)
	res, err := rewrite.NewRewriter(nil).Rewrite(r, cls)
	require.NoError(t, err)
	assert.NotContains(t, res.Keymap, "enum custom_keycodes")
	assert.Contains(t, res.Keymap, rewrite.DefaultDispatch)
}

func TestSubstituteReferences_MissingSlot(t *testing.T) {
	_, cls := pipeline(t, testutil.Typed("void"))
	keymap := "const uint16_t PROGMEM keymaps[][MATRIX_ROWS][MATRIX_COLS] = {\n  [0] = LAYOUT(ST_MACRO_0,\n ST_MACRO_7),\n};\n"

	_, err := rewrite.NewRewriter(nil).SubstituteReferences(keymap, 20, cls)
	require.Error(t, err)
	assert.ErrorIs(t, err, rewrite.ErrMissingSlotReference)
	assert.Contains(t, err.Error(), "keymap line 22")
	assert.Contains(t, err.Error(), "ST_MACRO_7")
}

func TestRemoveMatchedCases_MissingSlot(t *testing.T) {
	defs := testutil.OryxMacroDefs(testutil.Typed("void"), testutil.Typed("ret"))
	_, cls := pipeline(t, testutil.Typed("void"))

	_, err := rewrite.NewRewriter(nil).RemoveMatchedCases(defs, 1, cls)
	assert.ErrorIs(t, err, rewrite.ErrMissingSlotReference)
}

func TestRemoveMatchedCases_KeepsLiteralSlots(t *testing.T) {
	defs := testutil.OryxMacroDefs(testutil.Typed("void"), testutil.Typed("hello"))
	_, cls := pipeline(t, testutil.Typed("void"), testutil.Typed("hello"))

	out, err := rewrite.NewRewriter(nil).RemoveMatchedCases(defs, 1, cls)
	require.NoError(t, err)
	assert.NotContains(t, out, "case ST_MACRO_0:")
	assert.Contains(t, out, "case ST_MACRO_1:")
	assert.Contains(t, out, "case RGB_SLD:")
}

func TestForwardDefault_WithoutSentinel(t *testing.T) {
	defs := "bool process_record_user(uint16_t keycode, keyrecord_t *record) {\n  return true;\n}\n"
	assert.Equal(t, defs, rewrite.NewRewriter(nil).ForwardDefault(defs))
}

func TestLiteralEnum(t *testing.T) {
	assert.Equal(t, "enum custom_keycodes\n{\n\tST_MACRO_0,\n\tST_MACRO_3\n};\n", rewrite.LiteralEnum([]int{0, 3}))
}
