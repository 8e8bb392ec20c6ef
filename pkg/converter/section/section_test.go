package section_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stackvity/keymap-converter/internal/testutil"
	"github.com/stackvity/keymap-converter/pkg/converter/section"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		from   section.Section
		line   string
		to     section.Section
		stream section.Stream
		text   string
	}{
		{section.Preprocessing, "#include QMK_KEYBOARD_H", section.Preprocessing, section.Retained, "#include QMK_KEYBOARD_H"},
		{section.Preprocessing, section.MacroEnumMarker, section.MacroEnum, section.Retained, section.MacrosInclude},
		{section.MacroEnum, "  ST_MACRO_0,", section.MacroEnum, section.Dropped, "  ST_MACRO_0,"},
		{section.MacroEnum, section.TapDanceEnumMarker, section.TapDanceEnum, section.Side, section.TapDanceEnumMarker},
		{section.TapDanceEnum, "  DANCE_0,", section.TapDanceEnum, section.Side, "  DANCE_0,"},
		{section.TapDanceEnum, section.KeymapMarker, section.Keymap, section.KeymapAcc, section.KeymapMarker},
		{section.Keymap, "  [0] = LAYOUT_moonlander(", section.Keymap, section.KeymapAcc, "  [0] = LAYOUT_moonlander("},
		{section.Keymap, section.RGBSetupMarker, section.RGBSetup, section.KeymapAcc, section.RGBSetupMarker},
		{section.RGBSetup, "  rgb_matrix_enable();", section.RGBSetup, section.Retained, "  rgb_matrix_enable();"},
		{section.RGBSetup, section.MacroDefsMarker, section.MacroDefs, section.MacroAcc, section.MacroDefsMarker},
		{section.MacroDefs, "    case ST_MACRO_0:", section.MacroDefs, section.MacroAcc, "    case ST_MACRO_0:"},
		{section.MacroDefs, section.TapDanceSetupMarker, section.TapDanceSetup, section.Retained, section.TapDanceSetupMarker},
		{section.TapDanceSetup, "} tap;", section.TapDanceSetup, section.Retained, "} tap;"},
		{section.TapDanceSetup, "static tap dance_state[4];", section.TapDanceDefs, section.Side, "static tap dance_state[4];"},
		{section.TapDanceDefs, section.MacroEnumMarker, section.TapDanceDefs, section.Side, section.MacroEnumMarker},
	}
	for _, tc := range tests {
		t.Run(tc.from.String()+"/"+tc.line, func(t *testing.T) {
			next, actions := section.Transition(tc.from, tc.line)
			assert.Equal(t, tc.to, next)
			require.Len(t, actions, 1)
			assert.Equal(t, tc.stream, actions[0].Stream)
			assert.Equal(t, tc.text, actions[0].Text)
		})
	}
}

func TestTransition_NeverMovesBackwards(t *testing.T) {
	markers := []string{
		section.MacroEnumMarker, section.TapDanceEnumMarker, section.KeymapMarker,
		section.RGBSetupMarker, section.MacroDefsMarker, section.TapDanceSetupMarker,
		section.TapDanceDefsPrefix + "[1];", "", "anything",
	}
	for s := section.Preprocessing; s <= section.TapDanceDefs; s++ {
		for _, m := range markers {
			next, _ := section.Transition(s, m)
			assert.GreaterOrEqual(t, int(next), int(s), "%s on %q", s, m)
			assert.LessOrEqual(t, int(next), int(s)+1, "%s on %q skipped a section", s, m)
		}
	}
}

func TestTransition_MarkersMatchWholeLines(t *testing.T) {
	next, _ := section.Transition(section.Preprocessing, "  "+section.MacroEnumMarker)
	assert.Equal(t, section.Preprocessing, next)
	next, _ = section.Transition(section.MacroDefs, section.TapDanceSetupMarker+" ")
	assert.Equal(t, section.MacroDefs, next)
}

func TestSplit_RoutesRegions(t *testing.T) {
	macros := []string{testutil.Typed("void"), testutil.Typed("ret")}
	input := testutil.OryxKeymap(macros...)

	var logs bytes.Buffer
	s := section.NewSplitter(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := s.Split(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, section.TapDanceDefs, r.Final)
	assert.Equal(t, len(lines(input)), r.Lines)

	wantRetained := append(lines(testutil.OryxPreprocessing), section.MacrosInclude)
	wantRetained = append(wantRetained, lines(testutil.OryxRGBSetup)...)
	wantRetained = append(wantRetained, lines(testutil.OryxTapDanceSetup)...)
	if diff := cmp.Diff(wantRetained, r.Retained); diff != "" {
		t.Errorf("retained mismatch (-want +got):\n%s", diff)
	}

	wantSide := append(lines(testutil.OryxTapDanceEnum), lines(testutil.OryxTapDanceDefs)...)
	if diff := cmp.Diff(wantSide, r.Side); diff != "" {
		t.Errorf("side mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, testutil.OryxKeymapBody(2), r.KeymapText())
	assert.Equal(t, testutil.OryxMacroDefs(macros...), r.MacroDefsText())
	assert.Equal(t, section.MacroDefsMarker, r.MacroDefs[0])
	assert.Equal(t, section.KeymapMarker, lines(input)[r.KeymapLine-1])
	assert.Equal(t, section.MacroDefsMarker, lines(input)[r.MacroDefsLine-1])

	assert.Contains(t, logs.String(), "section=TapDanceDefs")
}

func TestSplit_CRLF(t *testing.T) {
	input := strings.ReplaceAll(testutil.OryxKeymap(testutil.Typed("void")), "\n", "\r\n")
	r, err := section.NewSplitter(nil).Split(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, section.TapDanceDefs, r.Final)
	for _, l := range r.Retained {
		assert.NotContains(t, l, "\r")
	}
}

func TestSplit_Malformed(t *testing.T) {
	full := testutil.OryxKeymap(testutil.Typed("void"))
	tests := []struct {
		name    string
		input   string
		section string
	}{
		{"empty", "", "Preprocessing"},
		{"truncated in keymap", full[:strings.Index(full, section.RGBSetupMarker)], "Keymap"},
		{"missing tap dance state", strings.Replace(full, "static tap dance_state[1];", "static int x;", 1), "TapDanceSetup"},
		{"reordered enums", strings.Replace(full, section.MacroEnumMarker, "enum other {", 1), "Preprocessing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := section.NewSplitter(nil).Split(strings.NewReader(tc.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, section.ErrMalformedSectionOrder)
			assert.Contains(t, err.Error(), "section "+tc.section)
		})
	}
}

// Re-wrapping the split regions with their markers and splitting again must
// reach the terminal section and reproduce the same regions.
func TestSplit_IdempotentOnRewrappedOutput(t *testing.T) {
	input := testutil.OryxKeymap(testutil.Typed("nullptr"), testutil.Typed("dt_up"))
	s := section.NewSplitter(nil)
	first, err := s.Split(strings.NewReader(input))
	require.NoError(t, err)

	includeAt := indexOf(first.Retained, section.MacrosInclude)
	typedefAt := indexOf(first.Retained, section.TapDanceSetupMarker)
	require.GreaterOrEqual(t, includeAt, 0)
	require.Greater(t, typedefAt, includeAt)
	tapDanceDefsAt := 0
	for i, l := range first.Side {
		if strings.HasPrefix(l, section.TapDanceDefsPrefix) {
			tapDanceDefsAt = i
			break
		}
	}

	var rewrapped []string
	rewrapped = append(rewrapped, first.Retained[:includeAt]...)
	rewrapped = append(rewrapped, section.MacroEnumMarker)
	rewrapped = append(rewrapped, first.Side[:tapDanceDefsAt]...)
	rewrapped = append(rewrapped, first.Keymap...)
	rewrapped = append(rewrapped, first.Retained[includeAt+1:typedefAt]...)
	rewrapped = append(rewrapped, first.MacroDefs...)
	rewrapped = append(rewrapped, first.Retained[typedefAt:]...)
	rewrapped = append(rewrapped, first.Side[tapDanceDefsAt:]...)

	second, err := s.Split(strings.NewReader(strings.Join(rewrapped, "\n") + "\n"))
	require.NoError(t, err)
	assert.Equal(t, first.Final, second.Final)
	assert.Equal(t, first.Retained, second.Retained)
	assert.Equal(t, first.Side, second.Side)
	assert.Equal(t, first.Keymap, second.Keymap)
	assert.Equal(t, first.MacroDefs, second.MacroDefs)
}

func indexOf(lines []string, want string) int {
	for i, l := range lines {
		if l == want {
			return i
		}
	}
	return -1
}

func TestSection_String(t *testing.T) {
	assert.Equal(t, "Preprocessing", section.Preprocessing.String())
	assert.Equal(t, "TapDanceDefs", section.TapDanceDefs.String())
	assert.Equal(t, "Section(42)", section.Section(42).String())
	assert.True(t, section.TapDanceDefs.Terminal())
	assert.False(t, section.MacroDefs.Terminal())
}
