package stne_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stnescript/stne"
)

const escapedNotEqual = "/*stne:<>*/"

// beautifierFunc adapts a function to stne.Beautifier.
type beautifierFunc func(src string, opts stne.FormatOptions) (string, error)

func (f beautifierFunc) Beautify(src string, opts stne.FormatOptions) (string, error) {
	return f(src, opts)
}

func TestEscapeOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "no operator", input: "If (a = b) { }", expected: "If (a = b) { }"},
		{name: "operator", input: "If (a <> b) {}", expected: "If (a " + escapedNotEqual + " b) {}"},
		{name: "tight operator", input: "a<>b", expected: "a" + escapedNotEqual + "b"},
		{name: "two operators", input: "a <> b <> c", expected: "a " + escapedNotEqual + " b " + escapedNotEqual + " c"},
		{name: "inside string", input: `x = "a <> b";`, expected: `x = "a <> b";`},
		{name: "inside single-quoted string", input: `x = '<>';`, expected: `x = '<>';`},
		{name: "inside line comment", input: "// a <> b\nc <> d", expected: "// a <> b\nc " + escapedNotEqual + " d"},
		{name: "inside block comment", input: "/* <> */ a <> b", expected: "/* <> */ a " + escapedNotEqual + " b"},
		{name: "escaped quote in string", input: `"\"<>" <> x`, expected: `"\"<>" ` + escapedNotEqual + ` x`},
		{name: "less and greater apart", input: "a < b > c", expected: "a < b > c"},
		{name: "unterminated string", input: `"<> x <> y`, expected: `"` + escapedNotEqual + ` x ` + escapedNotEqual + ` y`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := stne.EscapeOperators(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRestoreOperators(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "nothing escaped", input: "a = b;", expected: "a = b;"},
		{name: "tight", input: "a" + escapedNotEqual + "b", expected: "a <> b"},
		{name: "spaced", input: "a " + escapedNotEqual + "b", expected: "a <> b"},
		{name: "moved to next line", input: "If (a\n    " + escapedNotEqual + "b)", expected: "If (a <> b)"},
		{name: "crlf", input: "a\r\n  " + escapedNotEqual + "b", expected: "a <> b"},
		{name: "two", input: "a" + escapedNotEqual + "b" + escapedNotEqual + "c", expected: "a <> b <> c"},
		{name: "padded both sides", input: "a " + escapedNotEqual + " b", expected: "a <> b"},
		{name: "padded with tabs", input: "a\t" + escapedNotEqual + "\t\tb", expected: "a <> b"},
		{name: "line break after is kept", input: "a " + escapedNotEqual + "\nb", expected: "a <> \nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, stne.RestoreOperators(tt.input))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	var seen string

	identity := beautifierFunc(func(src string, _ stne.FormatOptions) (string, error) {
		seen = src
		return src, nil
	})

	got, err := stne.Format("If (a<>b) { x = \"<>\"; }", stne.DefaultFormatOptions(), identity)
	require.NoError(t, err)

	assert.Equal(t, "If (a"+escapedNotEqual+"b) { x = \"<>\"; }", seen, "the beautifier must see escaped operators")
	assert.Equal(t, "If (a <> b) { x = \"<>\"; }", got)
}

func TestFormat_EscapeRestoreIsStable(t *testing.T) {
	t.Parallel()

	identity := beautifierFunc(func(src string, _ stne.FormatOptions) (string, error) {
		return src, nil
	})

	for _, src := range []string{"if (a <> b) {}", "a<>b", "x = a <> b <> c;"} {
		once, err := stne.Format(src, stne.DefaultFormatOptions(), identity)
		require.NoError(t, err)

		twice, err := stne.Format(once, stne.DefaultFormatOptions(), identity)
		require.NoError(t, err)

		assert.Equal(t, once, twice, src)
	}

	got, err := stne.Format("if (a <> b) {}", stne.DefaultFormatOptions(), identity)
	require.NoError(t, err)
	assert.Equal(t, "if (a <> b) {}", got)
}

func TestFormat_JSBeautifier(t *testing.T) {
	t.Parallel()

	got, err := stne.Format("x = a<>b;", stne.DefaultFormatOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, "x = a <> b;", got)

	src := "if (a<>b) {\nx = \"<>\";\n}"

	got, err = stne.Format(src, stne.DefaultFormatOptions(), nil)
	require.NoError(t, err)
	assert.NotContains(t, got, "/*")
	assert.Contains(t, got, "if (a <> b)")
	assert.Contains(t, got, `x = "<>";`)

	again, err := stne.Format(got, stne.DefaultFormatOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, got, again, "formatting formatted text changes nothing")
}

func TestFormat_PassesOptions(t *testing.T) {
	t.Parallel()

	var got stne.FormatOptions

	capture := beautifierFunc(func(src string, opts stne.FormatOptions) (string, error) {
		got = opts
		return src, nil
	})

	_, err := stne.Format("a", stne.FormatOptions{IndentSize: 4, BraceStyle: "collapse"}, capture)
	require.NoError(t, err)
	assert.Equal(t, stne.FormatOptions{IndentSize: 4, BraceStyle: "collapse"}, got)
}

func TestFormat_BeautifierError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	failing := beautifierFunc(func(string, stne.FormatOptions) (string, error) {
		return "", boom
	})

	_, err := stne.Format("a <> b", stne.DefaultFormatOptions(), failing)
	require.ErrorIs(t, err, stne.ErrBeautify)
	require.ErrorIs(t, err, boom)
}

func TestFormat_RoundTripWithoutOperators(t *testing.T) {
	t.Parallel()

	upper := beautifierFunc(func(src string, _ stne.FormatOptions) (string, error) {
		return strings.ToUpper(src), nil
	})

	got, err := stne.Format("var x as integer;", stne.DefaultFormatOptions(), upper)
	require.NoError(t, err)
	assert.Equal(t, "VAR X AS INTEGER;", got)
}

func TestFormatOptions_Merge(t *testing.T) {
	t.Parallel()

	def := stne.DefaultFormatOptions()
	assert.Equal(t, stne.FormatOptions{IndentSize: 2, BraceStyle: "expand"}, def)
	assert.Equal(t, def, def.Merge(0, ""))
	assert.Equal(t, stne.FormatOptions{IndentSize: 4, BraceStyle: "expand"}, def.Merge(4, ""))
	assert.Equal(t, stne.FormatOptions{IndentSize: 2, BraceStyle: "none"}, def.Merge(-1, "none"))
}
