package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnderPathspec(t *testing.T) {
	testCases := []struct {
		file, spec string
		want       bool
	}{
		{"keymaps/chrispetkau/keymap.c", "keymaps/chrispetkau", true},
		{"keymaps/chrispetkau/keymap.c", "keymaps/chrispetkau/", true},
		{"keymaps/chrispetkau", "keymaps/chrispetkau", true},
		{"keymaps/chrispetkau2/keymap.c", "keymaps/chrispetkau", false},
		{"README.md", "keymaps/chrispetkau", false},
		{"README.md", "", true},
		{"README.md", ".", true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, underPathspec(tc.file, tc.spec), "%s in %q", tc.file, tc.spec)
	}
	assert.Equal(t, ".", pathspecOrAll(""))
	assert.Equal(t, "keymaps", pathspecOrAll("keymaps"))
}
