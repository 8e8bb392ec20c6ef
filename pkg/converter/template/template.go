// --- START OF FINAL REVISED FILE pkg/converter/template/template.go ---
// Package template renders petkau_macros.inl, the firmware include that
// declares one keycode per catalog snippet and types its text on press.
package template

import (
	_ "embed" // Required for //go:embed
	"fmt"
	"io"
	"text/template"

	"github.com/stackvity/keymap-converter/pkg/converter/catalog"
	"github.com/stackvity/keymap-converter/pkg/converter/codemap"
)

//go:embed macros.inl.tmpl
var defaultTemplateContent string

// Fixed parts of the rendered include.
const (
	Sentinel  = "RGB_SLD = ML_SAFE_RANGE"
	DelayName = "PETKAU_DELAY"
	Delay     = "SS_DELAY(0)"
)

// CatalogEntry is one snippet as seen by the template.
type CatalogEntry struct {
	Identifier string // e.g. PETKAU_MACRO_NullPtr
	Text       string // canonical text, e.g. nullptr
	SendString string // SEND_STRING argument typing Text
}

// CatalogData holds the data passed to the Go template engine for rendering.
type CatalogData struct {
	Sentinel  string
	DelayName string
	Delay     string
	Entries   []CatalogEntry
}

// NewCatalogData builds template data for every snippet, in enumeration
// order. A snippet whose text has no keystroke encoding fails with
// codemap.ErrUnencodableChar.
func NewCatalogData(snippets []catalog.Snippet) (*CatalogData, error) {
	data := &CatalogData{Sentinel: Sentinel, DelayName: DelayName, Delay: Delay}
	for _, s := range snippets {
		send, err := codemap.EncodeString(s.Text(), " "+DelayName+" ")
		if err != nil {
			return nil, fmt.Errorf("snippet %s: %w", s.Name(), err)
		}
		data.Entries = append(data.Entries, CatalogEntry{Identifier: s.Identifier(), Text: s.Text(), SendString: send})
	}
	return data, nil
}

// TemplateExecutor defines the interface for executing a Go template.
//
// Stability: Public Stable API - Implementations can be provided externally.
type TemplateExecutor interface {
	// Execute renders tmpl with data into writer. A nil tmpl means the
	// embedded default template.
	Execute(writer io.Writer, tmpl *template.Template, data *CatalogData) error
}

// GoTemplateExecutor implements the TemplateExecutor interface using Go's text/template.
type GoTemplateExecutor struct{}

// NewGoTemplateExecutor creates a new GoTemplateExecutor.
func NewGoTemplateExecutor() *GoTemplateExecutor { // minimal comment
	return &GoTemplateExecutor{}
}

// Execute runs the template, falling back to the embedded default if tmpl is nil.
func (e *GoTemplateExecutor) Execute(writer io.Writer, tmpl *template.Template, data *CatalogData) error { // minimal comment
	if tmpl == nil {
		defaultTmpl, err := LoadDefaultTemplate()
		if err != nil {
			return err
		}
		tmpl = defaultTmpl
	}
	if err := tmpl.Execute(writer, data); err != nil {
		return fmt.Errorf("template execution failed for %q: %w", tmpl.Name(), err)
	}
	return nil
}

// LoadDefaultTemplate parses the embedded petkau_macros.inl template.
func LoadDefaultTemplate() (*template.Template, error) { // minimal comment
	if defaultTemplateContent == "" {
		return nil, fmt.Errorf("embedded default template content is empty (likely missing macros.inl.tmpl file)")
	}
	tmpl, err := template.New("petkau_macros.inl").Option("missingkey=error").Parse(defaultTemplateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse default template: %w", err)
	}
	return tmpl, nil
}

// CatalogEmitter renders the snippet catalog. Its output depends on nothing
// but the catalog.
type CatalogEmitter struct {
	executor TemplateExecutor
	tmpl     *template.Template
}

// NewCatalogEmitter creates an emitter. A nil executor uses GoTemplateExecutor;
// a nil tmpl uses the embedded default.
func NewCatalogEmitter(executor TemplateExecutor, tmpl *template.Template) *CatalogEmitter {
	if executor == nil {
		executor = NewGoTemplateExecutor()
	}
	return &CatalogEmitter{executor: executor, tmpl: tmpl}
}

// Emit writes petkau_macros.inl for every catalog snippet to w.
func (c *CatalogEmitter) Emit(w io.Writer) error {
	data, err := NewCatalogData(catalog.Snippets())
	if err != nil {
		return err
	}
	return c.executor.Execute(w, c.tmpl, data)
}

// --- END OF FINAL REVISED FILE pkg/converter/template/template.go ---
