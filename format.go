// Package stne provides project configuration and the formatter for STNE
// scripts. Completion lives in the analysis and catalog packages.
package stne

import (
	"fmt"
	"regexp"
)

const (
	// DefaultIndentSize is the indent width when none is configured.
	DefaultIndentSize = 2
	// DefaultBraceStyle puts opening braces on their own line.
	DefaultBraceStyle = "expand"
)

// FormatOptions controls the beautifier.
type FormatOptions struct {
	IndentSize int
	BraceStyle string
}

// DefaultFormatOptions returns the built-in formatting settings.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{IndentSize: DefaultIndentSize, BraceStyle: DefaultBraceStyle}
}

// Merge returns o with the non-zero overrides applied.
func (o FormatOptions) Merge(indentSize int, braceStyle string) FormatOptions {
	if indentSize > 0 {
		o.IndentSize = indentSize
	}

	if braceStyle != "" {
		o.BraceStyle = braceStyle
	}

	return o
}

// Beautifier reformats C-like source text. The formatter only escapes and
// restores operators around it.
type Beautifier interface {
	Beautify(src string, opts FormatOptions) (string, error)
}

// restorePattern matches an escaped operator along with the line breaks and
// indentation the beautifier placed in front of it and the padding after it.
var restorePattern = regexp.MustCompile(`\s*` + regexp.QuoteMeta(escapedNotEqual) + `[ \t]*`)

// RestoreOperators replaces every escaped operator, and the whitespace around
// it, with " <> ". Restoring escaped text is idempotent: "a <> b" escapes and
// restores to itself.
func RestoreOperators(s string) string {
	return restorePattern.ReplaceAllLiteralString(s, " <> ")
}

// Format reformats an STNE script with b, keeping the <> operator intact.
// A nil Beautifier uses JSBeautifier.
func Format(src string, opts FormatOptions, b Beautifier) (string, error) {
	if b == nil {
		b = JSBeautifier{}
	}

	escaped, err := EscapeOperators(src)
	if err != nil {
		return "", fmt.Errorf("stne: escape operators: %w", err)
	}

	out, err := b.Beautify(escaped, opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBeautify, err)
	}

	return RestoreOperators(out), nil
}
