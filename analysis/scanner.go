package analysis

import "regexp"

// Declaration is the outcome of one scope scan. Found with an empty Type means
// the symbol exists but its type could not be recovered, which is different
// from not finding the symbol at all.
type Declaration struct {
	Found bool
	Type  string
}

var (
	// functionPattern: Function name(...) [As Type]. Keywords are case-sensitive.
	functionPattern = regexp.MustCompile(`Function\s+(` + ident + `)\s*\([^()]*\)(?:\s*As\s+(` + ident + `))?`)

	// variablePattern: Var name As [New] Type. Keywords are case-insensitive.
	variablePattern = regexp.MustCompile(`(?i:Var)\s+(` + ident + `)\s+(?i:As)\s+(?:(?i:New)\s+)?(` + ident + `)`)

	// parameterPattern: name As Type, anywhere in the text. This also matches
	// variable declarations and casts; the first hit is taken regardless.
	parameterPattern = regexp.MustCompile(`(` + ident + `)\s+As\s+(` + ident + `)`)
)

// FindFunction looks for the first function declaration named name in
// documentText. A declaration without an As clause is found with an empty type.
func FindFunction(name, documentText string) Declaration {
	return scan(functionPattern, name, documentText)
}

// FindVariable looks for the first "Var name As [New] Type" declaration in
// scopeText. Block scoping is ignored; a redeclaration later in the text never
// wins over the first one.
func FindVariable(name, scopeText string) Declaration {
	return scan(variablePattern, name, scopeText)
}

// FindParameter looks for the first "name As Type" pair in scopeText.
func FindParameter(name, scopeText string) Declaration {
	return scan(parameterPattern, name, scopeText)
}

// scan walks the non-overlapping matches of re in order and returns the first
// one whose first group equals name. The second group, if any, is the type.
func scan(re *regexp.Regexp, name, text string) Declaration {
	if name == "" || text == "" {
		return Declaration{}
	}

	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if m[1] != name {
			continue
		}

		return Declaration{Found: true, Type: m[2]}
	}

	return Declaration{}
}
