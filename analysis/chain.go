// Package analysis recovers just enough of an STNE script's structure from raw
// text to resolve the type behind a member-access chain and list its members.
// Nothing here parses the language: every scan is a compiled text pattern, and
// the first match always wins.
package analysis

import (
	"regexp"
	"strings"
)

// ident is the identifier shape shared by every scan pattern.
const ident = `[A-Za-z_][A-Za-z0-9_]*`

var (
	// chainPattern matches the dotted/call run that ends at the cursor.
	// Argument lists may not contain parentheses, so nested calls never match.
	chainPattern = regexp.MustCompile(ident + `(?:\.` + ident + `|\([^()]*\))*\.$`)

	// callPattern matches a segment that is exactly one call expression.
	callPattern = regexp.MustCompile(`^(` + ident + `)\s*\([^()]*\)$`)
)

// ExtractChain returns the member-access chain that ends exactly at the end of
// linePrefix, split on ".". The last segment is always empty because the run
// ends with the dot that triggered completion.
//
// Dots inside call arguments are split too, so "a.f(x.y)." yields a chain the
// resolver will not be able to follow.
func ExtractChain(linePrefix string) ([]string, bool) {
	run := chainPattern.FindString(linePrefix)
	if run == "" {
		return nil, false
	}

	return strings.Split(run, "."), true
}

// CallToken is the classification of one chain segment.
type CallToken struct {
	IsCall bool
	Callee string
}

// ClassifyToken reports whether segment is a call such as "f()" or
// "f(a As T)", and if so the callee name.
func ClassifyToken(segment string) CallToken {
	m := callPattern.FindStringSubmatch(segment)
	if m == nil {
		return CallToken{}
	}

	return CallToken{IsCall: true, Callee: m[1]}
}

// memberName strips a call suffix from an intermediate segment: "b(x)" -> "b".
func memberName(segment string) string {
	if i := strings.IndexByte(segment, '('); i >= 0 {
		segment = segment[:i]
	}

	return strings.TrimSpace(segment)
}
