// --- START OF FINAL REVISED FILE pkg/converter/encoding/handler.go ---
// Package encoding normalises the text files of an Oryx download to UTF-8
// before they reach the section splitter.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

var (
	// ErrBinaryInput indicates a file that is not text (e.g. a firmware image
	// or a corrupt archive member).
	ErrBinaryInput = errors.New("input is not a text file")

	// ErrUnknownCharset indicates a configured default encoding name that is
	// not a known IANA charset.
	ErrUnknownCharset = errors.New("unknown character encoding")
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType
	sniffLen = 512
	// checkLen is a buffer size used for null byte checks.
	checkLen = 1024
	// Null byte threshold percentage to consider a file binary.
	nullThreshold = 0.15 // 15%
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodingHandler defines the interface for detecting character encoding,
// converting content to UTF-8, and detecting binary files.
type EncodingHandler interface {
	// DetectAndDecode converts content to UTF-8. It returns the converted
	// bytes, the IANA name of the source encoding and whether detection was
	// certain. The configured default is used when detection is uncertain.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)

	// IsBinary reports whether content is likely binary, based on MIME
	// sniffing of the first 512 bytes and the share of NUL bytes in the
	// first 1024.
	IsBinary(content []byte) bool
}

// goCharsetEncodingHandler implements EncodingHandler with
// golang.org/x/net/html/charset.
type goCharsetEncodingHandler struct {
	defaultEncoding string
}

// NewGoCharsetEncodingHandler creates a new encoding handler. An empty
// defaultEncoding leaves uncertain input to the detector's guess.
func NewGoCharsetEncodingHandler(defaultEncoding string) (EncodingHandler, error) { // minimal comment
	if defaultEncoding != "" {
		if enc, _ := charset.Lookup(defaultEncoding); enc == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, defaultEncoding)
		}
	}
	return &goCharsetEncodingHandler{defaultEncoding: defaultEncoding}, nil
}

// DetectAndDecode implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) { // minimal comment
	if bytes.HasPrefix(content, utf8BOM) {
		return content[len(utf8BOM):], "utf-8", true, nil
	}

	enc, name, certain := charset.DetermineEncoding(content, "text/plain")
	if !certain && h.defaultEncoding != "" {
		if lookup, lookupName := charset.Lookup(h.defaultEncoding); lookup != nil {
			enc, name, certain = lookup, lookupName, true
		}
	}
	if enc == nil || name == "utf-8" {
		return content, "utf-8", certain, nil
	}

	utf8Content, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), enc.NewDecoder()))
	if err != nil {
		return content, name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	// A UTF-16 BOM decodes to U+FEFF.
	return bytes.TrimPrefix(utf8Content, utf8BOM), name, certain, nil
}

// IsBinary implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) IsBinary(content []byte) bool { // minimal comment
	if len(content) == 0 || bytes.HasPrefix(content, []byte{0xFF, 0xFE}) || bytes.HasPrefix(content, []byte{0xFE, 0xFF}) {
		return false
	}
	contentType := http.DetectContentType(content[:min(len(content), sniffLen)])
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if !strings.HasPrefix(mimeType, "text/") && mimeType != "application/octet-stream" {
		return true
	}
	window := content[:min(len(content), checkLen)]
	return float64(bytes.Count(window, []byte{0x00}))/float64(len(window)) > nullThreshold
}

// ReadText reads a whole text file and returns it as UTF-8. Binary content
// fails with ErrBinaryInput.
func ReadText(h EncodingHandler, r io.Reader) ([]byte, string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if h.IsBinary(content) {
		return nil, "", ErrBinaryInput
	}
	text, name, _, err := h.DetectAndDecode(content)
	if err != nil {
		return nil, name, err
	}
	return text, name, nil
}

// --- END OF FINAL REVISED FILE pkg/converter/encoding/handler.go ---
