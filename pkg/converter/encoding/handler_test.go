// --- START OF FINAL REVISED FILE pkg/converter/encoding/handler_test.go ---
package encoding_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stackvity/keymap-converter/pkg/converter/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Helper function to encode string to specified encoding bytes
func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	encodedBytes, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return encodedBytes
}

func newHandler(t *testing.T, defaultEncoding string) encoding.EncodingHandler {
	t.Helper()
	h, err := encoding.NewGoCharsetEncodingHandler(defaultEncoding)
	require.NoError(t, err)
	return h
}

func TestNewGoCharsetEncodingHandler_UnknownDefault(t *testing.T) {
	_, err := encoding.NewGoCharsetEncodingHandler("klingon-8")
	require.Error(t, err)
	assert.ErrorIs(t, err, encoding.ErrUnknownCharset)
}

func TestDetectAndDecode_ASCIIWithUTF8Default(t *testing.T) {
	input := []byte("#include QMK_KEYBOARD_H\n")
	out, name, certain, err := newHandler(t, "utf-8").DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain, "configured default is treated as certain")
	assert.Equal(t, input, out)
}

func TestDetectAndDecode_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "enum custom_keycodes {\n"...)
	out, name, certain, err := newHandler(t, "").DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.True(t, certain)
	assert.Equal(t, "enum custom_keycodes {\n", string(out))
}

func TestDetectAndDecode_UTF16LE_WithBOM(t *testing.T) {
	originalText := "// Häppy keymap\n"
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	input := append([]byte{0xFF, 0xFE}, encodeBytes(t, originalText, encoder)...)

	out, name, certain, err := newHandler(t, "utf-8").DetectAndDecode(input)
	require.NoError(t, err)
	assert.Contains(t, name, "utf-16le")
	assert.True(t, certain, "Should be certain due to BOM")
	assert.Equal(t, originalText, string(out))
}

func TestDetectAndDecode_Latin1Default(t *testing.T) {
	originalText := "// Pétkau layout\n"
	input := encodeBytes(t, originalText, charmap.ISO8859_1.NewEncoder())

	out, name, certain, err := newHandler(t, "ISO-8859-1").DetectAndDecode(input)
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", name, "iso-8859-1 is a windows-1252 label")
	assert.True(t, certain)
	assert.Equal(t, originalText, string(out))
}

func TestIsBinary(t *testing.T) {
	h := newHandler(t, "")
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{"empty", nil, false},
		{"c source", []byte("bool process_record_user(uint16_t keycode, keyrecord_t *record) {\n"), false},
		{"zip header", []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), true},
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), true},
		{"utf-16 with bom", append([]byte{0xFF, 0xFE}, 'a', 0, 'b', 0), false},
		{"mostly nul", append([]byte("ab"), bytes.Repeat([]byte{0}, 64)...), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, h.IsBinary(tc.input))
		})
	}
}

func TestReadText(t *testing.T) {
	h := newHandler(t, "utf-8")

	text, name, err := encoding.ReadText(h, strings.NewReader("#define ML_SAFE_RANGE SAFE_RANGE\n"))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", name)
	assert.Equal(t, "#define ML_SAFE_RANGE SAFE_RANGE\n", string(text))

	_, _, err = encoding.ReadText(h, bytes.NewReader([]byte("PK\x03\x04\x14\x00\x00\x00\x08\x00")))
	assert.ErrorIs(t, err, encoding.ErrBinaryInput)
}

// --- END OF FINAL REVISED FILE pkg/converter/encoding/handler_test.go ---
