package analysis

import (
	"strings"

	"github.com/stnescript/stne/catalog"
)

// SuggestionKind tells the editor how to present a suggestion.
type SuggestionKind int

const (
	KindProperty SuggestionKind = iota + 1
	KindMethod
	KindType
)

func (k SuggestionKind) String() string {
	switch k {
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindType:
		return "type"
	default:
		return "unknown"
	}
}

// Suggestion is one completion candidate.
type Suggestion struct {
	Label     string
	Signature string
	Kind      SuggestionKind
}

// implicitConstructors are the method slots the runtime reports for
// constructors. They cannot be called by name from a script.
var implicitConstructors = map[string]bool{
	".ctor":  true,
	".cctor": true,
}

// BuildSuggestions lists the callable and readable members of t in catalog
// order. Constructors are never offered after a dot.
func BuildSuggestions(t *catalog.TypeEntry) []Suggestion {
	if t == nil {
		return nil
	}

	out := make([]Suggestion, 0, len(t.Members))

	for i := range t.Members {
		m := &t.Members[i]

		var s Suggestion

		switch m.Kind {
		case catalog.KindProperty, catalog.KindField:
			s = Suggestion{Label: m.Name, Signature: m.Name + ": " + m.DeclaredType, Kind: KindProperty}
		case catalog.KindMethod:
			if implicitConstructors[m.Name] {
				continue
			}

			s = Suggestion{Label: m.Name, Signature: methodSignature(m), Kind: KindMethod}
		case catalog.KindConstructor:
			continue
		default:
			continue
		}

		if m.Static {
			s.Signature += " (static)"
		}

		out = append(out, s)
	}

	return out
}

// TypeNameSuggestions offers every catalog type name, for the positions after
// "New" and "As".
func TypeNameSuggestions(types []catalog.TypeEntry) []Suggestion {
	out := make([]Suggestion, 0, len(types))
	for _, t := range types {
		out = append(out, Suggestion{Label: t.Name, Kind: KindType})
	}

	return out
}

// methodSignature renders "Name(p As T, q As U): Ret".
func methodSignature(m *catalog.MemberEntry) string {
	var b strings.Builder

	b.WriteString(m.Name)
	b.WriteByte('(')

	for i, p := range m.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(p.Name)
		b.WriteString(" As ")
		b.WriteString(p.DeclaredType)
	}

	b.WriteString("): ")
	b.WriteString(m.DeclaredType)

	return b.String()
}
