package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stnescript/stne/analysis"
	"github.com/stnescript/stne/catalog"
)

// testCatalog is a small object model: Foo.Get returns a Bar, Bar.Owner is a
// Foo, and Foo.Size is declared with an internal integer spelling.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	doc := &catalog.Document{Types: []catalog.DocumentType{
		{
			Name: "Foo",
			Members: []catalog.DocumentMember{
				{Name: "Count", MemberType: "Property", Type: "Integer"},
				{Name: "Get", MemberType: "Method", Type: "Bar", Params: []catalog.DocumentParam{{Name: "i", Type: "Integer"}}},
				{Name: "New", MemberType: "Constructor", Type: "Foo"},
				{Name: "Size", MemberType: "Field", Type: "Int32"},
			},
		},
		{
			Name: "Bar",
			Members: []catalog.DocumentMember{
				{Name: "Owner", MemberType: "Property", Type: "Foo"},
				{Name: "Label", MemberType: "Field", Type: "String"},
				{Name: "Label", MemberType: "Method", Type: "Foo"},
				{Name: "Broken", MemberType: "Property", Type: "Missing"},
			},
		},
		{Name: "Integer", Members: []catalog.DocumentMember{}},
	}}

	c := catalog.New(nil)
	require.NoError(t, c.Load(doc))

	return c
}

func TestResolve(t *testing.T) {
	t.Parallel()

	c := testCatalog(t)

	tests := []struct {
		name     string
		chain    []string
		doc      string
		wantType string
		wantOK   bool
	}{
		{name: "empty chain", chain: nil, wantOK: false},
		{name: "variable root", chain: []string{"v", ""}, doc: "Var v As New Foo;", wantType: "Foo", wantOK: true},
		{name: "parameter root", chain: []string{"p", ""}, doc: "Function f(p As Bar) {}", wantType: "Bar", wantOK: true},
		{
			name:     "variable wins over parameter",
			chain:    []string{"x", ""},
			doc:      "Function f(x As Bar) {}\nVar x As Foo;",
			wantType: "Foo",
			wantOK:   true,
		},
		{name: "function root", chain: []string{"make()", ""}, doc: "Function make() As Bar {}", wantType: "Bar", wantOK: true},
		{name: "function without return type", chain: []string{"make()", ""}, doc: "Function make() {}", wantOK: false},
		{name: "undeclared function", chain: []string{"make()", ""}, doc: "Var make As Foo;", wantOK: false},
		{name: "undeclared root", chain: []string{"nope", ""}, doc: "Var v As Foo;", wantOK: false},
		{name: "unknown root type", chain: []string{"v", ""}, doc: "Var v As Unknown;", wantOK: false},
		{name: "property link", chain: []string{"b", "Owner", ""}, doc: "Var b As Bar;", wantType: "Foo", wantOK: true},
		{name: "method link uses return type", chain: []string{"v", "Get(1)", ""}, doc: "Var v As Foo;", wantType: "Bar", wantOK: true},
		{name: "method link without args", chain: []string{"v", "Get()", "Owner", ""}, doc: "Var v As Foo;", wantType: "Foo", wantOK: true},
		{name: "aliased member type", chain: []string{"v", "Size", ""}, doc: "Var v As Foo;", wantType: "Integer", wantOK: true},
		{name: "aliased root type", chain: []string{"n", ""}, doc: "Var n As Int32;", wantType: "Integer", wantOK: true},
		{name: "first overload wins", chain: []string{"b", "Label", ""}, doc: "Var b As Bar;", wantOK: false},
		{name: "unknown member", chain: []string{"v", "Nope", ""}, doc: "Var v As Foo;", wantOK: false},
		{name: "member type not in catalog", chain: []string{"b", "Broken", ""}, doc: "Var b As Bar;", wantOK: false},
		{name: "members are case-sensitive", chain: []string{"v", "count", ""}, doc: "Var v As Foo;", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := analysis.Resolve(c.Snapshot(), tt.chain, tt.doc)
			require.Equal(t, tt.wantOK, ok)

			if !tt.wantOK {
				assert.Nil(t, got)
				return
			}

			assert.Equal(t, tt.wantType, got.Name)
		})
	}
}

func TestResolve_NilLookup(t *testing.T) {
	t.Parallel()

	_, ok := analysis.Resolve(nil, []string{"v", ""}, "Var v As Foo;")
	assert.False(t, ok)
}

func TestResolve_EmptyCatalog(t *testing.T) {
	t.Parallel()

	_, ok := analysis.Resolve(catalog.New(nil), []string{"v", ""}, "Var v As Foo;")
	assert.False(t, ok)
}
