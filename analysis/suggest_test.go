package analysis_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stnescript/stne/analysis"
	"github.com/stnescript/stne/catalog"
)

func TestBuildSuggestions(t *testing.T) {
	t.Parallel()

	foo, ok := testCatalog(t).Lookup("Foo")
	require.True(t, ok)

	want := []analysis.Suggestion{
		{Label: "Count", Signature: "Count: Integer", Kind: analysis.KindProperty},
		{Label: "Get", Signature: "Get(i As Integer): Bar", Kind: analysis.KindMethod},
		{Label: "Size", Signature: "Size: Integer", Kind: analysis.KindProperty},
	}

	if diff := cmp.Diff(want, analysis.BuildSuggestions(foo)); diff != "" {
		t.Errorf("BuildSuggestions() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSuggestions_ObjectExplorer(t *testing.T) {
	t.Parallel()

	c := catalog.New(nil)
	require.NoError(t, c.LoadFile(filepath.Join("testdata", "objectexplorer.json")))

	list := c.Types()[0]
	got := analysis.BuildSuggestions(&list)

	// .ctor and the constructor are not offered.
	require.Len(t, got, 4)

	assert.Equal(t, "GetEnumerator", got[0].Label)
	assert.Equal(t, "GetEnumerator(): void", got[0].Signature)
	assert.Equal(t, "Count", got[1].Label)
	assert.Equal(t, "Count: Integer", got[1].Signature)
	assert.Equal(t, "Item(index As Integer): String", got[2].Signature)

	ship, ok := c.Lookup("CShip")
	require.True(t, ok)

	got = analysis.BuildSuggestions(ship)
	require.Len(t, got, 4)
	assert.Equal(t, "ShipID: Long", got[1].Signature)
	assert.Equal(t, "FindByName(name As String, owner As Short): CShip (static)", got[3].Signature)
	assert.Equal(t, analysis.KindMethod, got[3].Kind)
}

func TestBuildSuggestions_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, analysis.BuildSuggestions(nil))
	assert.Empty(t, analysis.BuildSuggestions(&catalog.TypeEntry{Name: "Empty"}))
}

func TestTypeNameSuggestions(t *testing.T) {
	t.Parallel()

	got := analysis.TypeNameSuggestions(testCatalog(t).Types())

	labels := make([]string, 0, len(got))
	for _, s := range got {
		assert.Equal(t, analysis.KindType, s.Kind)
		labels = append(labels, s.Label)
	}

	assert.Equal(t, []string{"Foo", "Bar", "Integer"}, labels)
}
