package stne

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// scriptLexer splits STNE script into just the token classes the formatter
// boundary needs. Strings and comments are whole tokens so that an operator
// spelled inside them is left alone. The catch-all Char rule means lexing
// never fails on unusual input.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
	{Name: "NotEqual", Pattern: `<>`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Char", Pattern: `.`},
})

var tNotEqual = scriptLexer.Symbols()["NotEqual"]

// escapedNotEqual stands in for <> while the beautifier runs. The beautifier
// copies block comments through verbatim, padding them with spaces, where it
// would split a bare <> into "< >".
const escapedNotEqual = "/*stne:<>*/"

// EscapeOperators replaces every <> operator outside strings and comments
// with escapedNotEqual.
func EscapeOperators(src string) (string, error) {
	lex, err := scriptLexer.LexString("", src)
	if err != nil {
		return "", err
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	b.Grow(len(src))

	for _, tok := range tokens {
		if tok.EOF() {
			break
		}

		if tok.Type == tNotEqual {
			b.WriteString(escapedNotEqual)

			continue
		}

		b.WriteString(tok.Value)
	}

	return b.String(), nil
}
