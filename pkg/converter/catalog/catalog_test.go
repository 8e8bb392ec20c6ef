package catalog_test

import (
	"strings"
	"testing"

	"github.com/stackvity/keymap-converter/pkg/converter/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnippets_OrderAndCount(t *testing.T) {
	all := catalog.Snippets()
	require.Len(t, all, 31)
	assert.Equal(t, catalog.Void, all[0])
	assert.Equal(t, catalog.Function, all[len(all)-1])
}

func TestSnippet_Renderings(t *testing.T) {
	assert.Equal(t, "nullptr", catalog.NullPtr.Text())
	assert.Equal(t, "NullPtr", catalog.NullPtr.Name())
	assert.Equal(t, "PETKAU_MACRO_NullPtr", catalog.NullPtr.Identifier())
	assert.Equal(t, "reinterpret_cast", catalog.ReinterpretCast.Text())
	assert.Equal(t, "#endif", catalog.EndIf.Text())
	assert.Equal(t, "!=", catalog.NotEqual.Text())
}

func TestSnippet_TextsAreUnique(t *testing.T) {
	seen := map[string]catalog.Snippet{}
	for _, s := range catalog.Snippets() {
		text := s.Text()
		require.NotEmpty(t, text, "snippet %s has no text", s)
		prev, dup := seen[text]
		assert.False(t, dup, "%s and %s share text %q", prev, s, text)
		seen[text] = s
	}
}

func TestCustomKeycodes(t *testing.T) {
	all := catalog.CustomKeycodes()
	require.Len(t, all, 3)
	assert.Equal(t, "DT_PRNT", catalog.DynamicTappingTermPrint.Identifier())
	assert.Equal(t, "DT_UP", catalog.DynamicTappingTermIncrease.Text())
	assert.Equal(t, "DT_DOWN", catalog.DynamicTappingTermDecrease.Text())
}

func TestRef(t *testing.T) {
	r := catalog.SnippetRef(catalog.Return)
	assert.Equal(t, "return", r.Text())
	assert.Equal(t, "PETKAU_MACRO_Return", r.Identifier())
	assert.Equal(t, "snippet:Return", r.String())

	k := catalog.CustomKeycodeRef(catalog.DynamicTappingTermIncrease)
	assert.Equal(t, "DT_UP", k.Identifier())
	assert.Equal(t, "customKeycode:DynamicTappingTermIncrease", k.String())
}

func TestTables_PriorityOrder(t *testing.T) {
	tables := catalog.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, catalog.KindSnippet, tables[0].Kind)
	assert.Equal(t, catalog.KindCustomKeycode, tables[1].Kind)
	assert.Len(t, tables[0].Entries, len(catalog.Snippets()))
	assert.Len(t, tables[1].Entries, len(catalog.CustomKeycodes()))
}

func TestCatalogs_AreDisjoint(t *testing.T) {
	for _, s := range catalog.Snippets() {
		for _, k := range catalog.CustomKeycodes() {
			assert.NotEqual(t, strings.ToLower(s.Text()), strings.ToLower(k.Text()))
		}
	}
}
