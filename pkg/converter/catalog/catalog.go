// --- START OF NEW FILE pkg/converter/catalog/catalog.go ---
// Package catalog holds the two fixed catalogs that user macros are matched
// against: the snippet catalog (code fragments typed by the firmware) and the
// custom keycode catalog (QMK keycodes reachable only through a macro slot).
package catalog

import "fmt"

// Kind identifies which catalog an entry belongs to.
type Kind int

const (
	KindSnippet Kind = iota
	KindCustomKeycode
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSnippet:
		return "snippet"
	case KindCustomKeycode:
		return "customKeycode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SnippetIdentifierPrefix prefixes the enum identifier of every snippet.
const SnippetIdentifierPrefix = "PETKAU_MACRO_"

// Snippet enumerates the known code snippets. Order is significant: it is the
// emitted enum order and the tie-break order for ambiguous matches.
type Snippet int

const (
	Void Snippet = iota
	Break
	NotEqual
	EqualsArrow
	DashArrow
	Return
	Bool
	False
	True
	NullPtr
	Continue
	Virtual
	Override
	Static
	Enum
	Class
	Struct
	Namespace
	Include
	Define
	IfDef
	Else
	EndIf
	Public
	Private
	Template
	Typename
	Auto
	While
	ReinterpretCast
	Function
	snippetCount
)

var snippetNames = [snippetCount]string{
	"Void", "Break", "NotEqual", "EqualsArrow", "DashArrow", "Return", "Bool",
	"False", "True", "NullPtr", "Continue", "Virtual", "Override", "Static",
	"Enum", "Class", "Struct", "Namespace", "Include", "Define", "IfDef", "Else",
	"EndIf", "Public", "Private", "Template", "Typename", "Auto", "While",
	"ReinterpretCast", "Function",
}

var snippetTexts = [snippetCount]string{
	"void", "break", "!=", "=>", "->", "return", "bool",
	"false", "true", "nullptr", "continue", "virtual", "override", "static",
	"enum", "class", "struct", "namespace", "#include", "#define", "#ifdef", "#else",
	"#endif", "public", "private", "template", "typename", "auto", "while",
	"reinterpret_cast", "function",
}

// Name returns the enumerant name, e.g. "NullPtr".
func (s Snippet) Name() string {
	if s < 0 || s >= snippetCount {
		return fmt.Sprintf("Snippet(%d)", int(s))
	}
	return snippetNames[s]
}

// Text returns the canonical rendering the snippet types, e.g. "nullptr".
func (s Snippet) Text() string {
	if s < 0 || s >= snippetCount {
		return ""
	}
	return snippetTexts[s]
}

// Identifier returns the firmware enum identifier, e.g. "PETKAU_MACRO_NullPtr".
func (s Snippet) Identifier() string { return SnippetIdentifierPrefix + s.Name() }

// String implements fmt.Stringer.
func (s Snippet) String() string { return s.Name() }

// Snippets returns every snippet in enumeration order.
func Snippets() []Snippet {
	all := make([]Snippet, 0, snippetCount)
	for s := Void; s < snippetCount; s++ {
		all = append(all, s)
	}
	return all
}

// CustomKeycode enumerates the QMK keycodes that can be bound through a macro.
type CustomKeycode int

const (
	DynamicTappingTermPrint CustomKeycode = iota
	DynamicTappingTermIncrease
	DynamicTappingTermDecrease
	customKeycodeCount
)

var customKeycodeNames = [customKeycodeCount]string{
	"DynamicTappingTermPrint", "DynamicTappingTermIncrease", "DynamicTappingTermDecrease",
}

var customKeycodeTexts = [customKeycodeCount]string{"DT_PRNT", "DT_UP", "DT_DOWN"}

// Name returns the enumerant name.
func (k CustomKeycode) Name() string {
	if k < 0 || k >= customKeycodeCount {
		return fmt.Sprintf("CustomKeycode(%d)", int(k))
	}
	return customKeycodeNames[k]
}

// Text returns the QMK keycode, which is both the match text and the identifier.
func (k CustomKeycode) Text() string {
	if k < 0 || k >= customKeycodeCount {
		return ""
	}
	return customKeycodeTexts[k]
}

// Identifier returns the QMK keycode substituted into the keymap.
func (k CustomKeycode) Identifier() string { return k.Text() }

// String implements fmt.Stringer.
func (k CustomKeycode) String() string { return k.Name() }

// CustomKeycodes returns every custom keycode in enumeration order.
func CustomKeycodes() []CustomKeycode {
	all := make([]CustomKeycode, 0, customKeycodeCount)
	for k := DynamicTappingTermPrint; k < customKeycodeCount; k++ {
		all = append(all, k)
	}
	return all
}

// Ref identifies one entry of one catalog. The zero Ref is the Void snippet;
// callers carry a separate matched flag rather than relying on a sentinel.
type Ref struct {
	Kind  Kind
	Index int
}

// SnippetRef returns the Ref of a snippet.
func SnippetRef(s Snippet) Ref { return Ref{Kind: KindSnippet, Index: int(s)} }

// CustomKeycodeRef returns the Ref of a custom keycode.
func CustomKeycodeRef(k CustomKeycode) Ref { return Ref{Kind: KindCustomKeycode, Index: int(k)} }

// Name returns the enumerant name of the referenced entry.
func (r Ref) Name() string {
	if r.Kind == KindCustomKeycode {
		return CustomKeycode(r.Index).Name()
	}
	return Snippet(r.Index).Name()
}

// Text returns the canonical rendering of the referenced entry.
func (r Ref) Text() string {
	if r.Kind == KindCustomKeycode {
		return CustomKeycode(r.Index).Text()
	}
	return Snippet(r.Index).Text()
}

// Identifier returns the symbol substituted for the slot in the keymap.
func (r Ref) Identifier() string {
	if r.Kind == KindCustomKeycode {
		return CustomKeycode(r.Index).Identifier()
	}
	return Snippet(r.Index).Identifier()
}

// String implements fmt.Stringer.
func (r Ref) String() string { return r.Kind.String() + ":" + r.Name() }

// Table is one catalog in enumeration order.
type Table struct {
	Kind    Kind
	Entries []Ref
}

// Primary returns the snippet catalog.
func Primary() Table {
	t := Table{Kind: KindSnippet}
	for _, s := range Snippets() {
		t.Entries = append(t.Entries, SnippetRef(s))
	}
	return t
}

// Secondary returns the custom keycode catalog.
func Secondary() Table {
	t := Table{Kind: KindCustomKeycode}
	for _, k := range CustomKeycodes() {
		t.Entries = append(t.Entries, CustomKeycodeRef(k))
	}
	return t
}

// Tables returns both catalogs in match priority order.
func Tables() []Table { return []Table{Primary(), Secondary()} }

// --- END OF NEW FILE pkg/converter/catalog/catalog.go ---
