package lsp_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"github.com/stnescript/stne"
	"github.com/stnescript/stne/lsp"
)

// beautifierFunc adapts a function to stne.Beautifier.
type beautifierFunc func(src string, opts stne.FormatOptions) (string, error)

func (f beautifierFunc) Beautify(src string, opts stne.FormatOptions) (string, error) {
	return f(src, opts)
}

func formattingParams(uri protocol.DocumentURI) *protocol.DocumentFormattingParams {
	return &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Options:      protocol.FormattingOptions{TabSize: 8, InsertSpaces: true},
	}
}

func TestFormatting_ReplacesWholeDocument(t *testing.T) {
	t.Parallel()

	var seen string

	// Collapse all whitespace to single spaces.
	fake := beautifierFunc(func(src string, _ stne.FormatOptions) (string, error) {
		seen = src
		return strings.Join(strings.Fields(src), " "), nil
	})

	server, _ := newTestServer(t, func(o *lsp.Options) { o.Beautifier = fake })
	ctx := context.Background()

	const uri = "file:///format.stne"
	text := "If (a   <>  b)\n{\n  x = \"<>\";\n}\nWriteLine(\"é\");"
	openDocument(t, server, uri, text)

	edits, err := server.Formatting(ctx, formattingParams(uri))
	require.NoError(t, err)
	require.Len(t, edits, 1)

	assert.NotContains(t, seen, "a   <>", "operators are escaped before beautifying")
	assert.Contains(t, seen, `"<>"`, "strings are left alone")

	assert.Equal(t, `If (a <> b) { x = "<>"; } WriteLine("é");`, edits[0].NewText)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 4, Character: 15},
	}, edits[0].Range)
}

func TestFormatting_Unchanged(t *testing.T) {
	t.Parallel()

	identity := beautifierFunc(func(src string, _ stne.FormatOptions) (string, error) {
		return src, nil
	})

	server, _ := newTestServer(t, func(o *lsp.Options) { o.Beautifier = identity })

	const uri = "file:///same.stne"
	openDocument(t, server, uri, "a = b;\n")

	edits, err := server.Formatting(context.Background(), formattingParams(uri))
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestFormatting_BeautifierError(t *testing.T) {
	t.Parallel()

	failing := beautifierFunc(func(string, stne.FormatOptions) (string, error) {
		return "", errors.New("unbalanced braces")
	})

	server, _ := newTestServer(t, func(o *lsp.Options) { o.Beautifier = failing })

	const uri = "file:///broken.stne"
	openDocument(t, server, uri, "If (a {")

	edits, err := server.Formatting(context.Background(), formattingParams(uri))
	require.ErrorIs(t, err, stne.ErrBeautify)
	assert.Nil(t, edits)
}

func TestFormatting_UnknownDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	edits, err := server.Formatting(context.Background(), formattingParams("file:///missing.stne"))
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestFormatting_UsesProjectConfig(t *testing.T) {
	t.Parallel()

	var got stne.FormatOptions

	capture := beautifierFunc(func(src string, opts stne.FormatOptions) (string, error) {
		got = opts
		return src, nil
	})

	server, _ := newTestServer(t, func(o *lsp.Options) {
		o.Beautifier = capture
		o.ConfigDir = writeProjectConfig(t, "format:\n  indentSize: 4\n  braceStyle: end-expand\n")
	})

	const uri = "file:///cfg.stne"
	openDocument(t, server, uri, "a")

	_, err := server.Formatting(context.Background(), formattingParams(uri))
	require.NoError(t, err)
	assert.Equal(t, stne.FormatOptions{IndentSize: 4, BraceStyle: "end-expand"}, got)
}
