// --- START OF FINAL REVISED FILE pkg/util/util_test.go ---
package util_test

import (
	"testing"

	"github.com/stackvity/keymap-converter/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestMatchesArchiveName(t *testing.T) {
	const prefix = "moonlander_colemak_coder_"
	testCases := []struct {
		name          string
		fileName      string
		expectedMatch bool
	}{
		{"Oryx download", "moonlander_colemak_coder_vLx9o_4Xwnb.zip", true},
		{"Upper case extension", "moonlander_colemak_coder_abc.ZIP", true},
		{"Browser duplicate suffix", "moonlander_colemak_coder_abc (1).zip", true},
		{"Other layout", "moonlander_qwerty_abc.zip", false},
		{"Prefix only", "moonlander_colemak_coder_", false},
		{"Not a zip", "moonlander_colemak_coder_abc.bin", false},
		{"Partial download", "moonlander_colemak_coder_abc.zip.crdownload", false},
		{"Path separator", "sub/moonlander_colemak_coder_abc.zip", false},
		{"Empty", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMatch, util.MatchesArchiveName(tc.fileName, prefix))
		})
	}
}

func TestArchiveEntryTarget(t *testing.T) {
	const prefix = "moonlander_colemak_coder_source"
	testCases := []struct {
		name           string
		entry          string
		expectedTarget string
		expectedOK     bool
	}{
		{"Nested keymap", "moonlander_colemak_coder_source/keymap.c", "keymap.c", true},
		{"Deeply nested", "moonlander_colemak_coder_source/keyboards/moonlander/config.h", "config.h", true},
		{"Windows separators", `moonlander_colemak_coder_source\rules.mk`, "rules.mk", true},
		{"Directory entry", "moonlander_colemak_coder_source/", "", false},
		{"Nested directory entry", "moonlander_colemak_coder_source/keymaps/", "", false},
		{"Outside prefix", "moonlander_colemak_coder.bin", "", false},
		{"Firmware next to source", "moonlander_colemak_coder_firmware/moonlander.bin", "", false},
		{"Escapes with dot dot", "moonlander_colemak_coder_source/../../etc/passwd", "", false},
		{"Dot dot that stays inside", "moonlander_colemak_coder_source/a/../keymap.c", "keymap.c", true},
		{"Empty", "", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := util.ArchiveEntryTarget(tc.entry, prefix)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedTarget, target)
		})
	}
}

func TestIsEnclosedName(t *testing.T) {
	assert.True(t, util.IsEnclosedName("a/b/c.txt"))
	assert.True(t, util.IsEnclosedName("./a/./b"))
	assert.True(t, util.IsEnclosedName("a/../b"))
	assert.False(t, util.IsEnclosedName("../a"))
	assert.False(t, util.IsEnclosedName("a/../../b"))
	assert.False(t, util.IsEnclosedName("/etc/passwd"))
	assert.False(t, util.IsEnclosedName("C:/Windows/system.ini"))
	assert.False(t, util.IsEnclosedName("a\x00b"))
	assert.False(t, util.IsEnclosedName(""))
}

// --- END OF FINAL REVISED FILE pkg/util/util_test.go ---
