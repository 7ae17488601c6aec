package analysis

import "strings"

// WordPrefix returns the identifier being typed at the end of linePrefix:
// the trailing run of ASCII letters, digits and underscores.
func WordPrefix(linePrefix string) string {
	start := len(linePrefix)

	for i := len(linePrefix) - 1; i >= 0; i-- {
		if !isWordByte(linePrefix[i]) {
			break
		}

		start = i
	}

	return linePrefix[start:]
}

func isWordByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// FilterByPrefix keeps the suggestions whose label starts with prefix,
// ignoring case.
func FilterByPrefix(suggestions []Suggestion, prefix string) []Suggestion {
	if prefix == "" {
		return suggestions
	}

	prefix = strings.ToLower(prefix)
	filtered := make([]Suggestion, 0, len(suggestions))

	for _, s := range suggestions {
		if strings.HasPrefix(strings.ToLower(s.Label), prefix) {
			filtered = append(filtered, s)
		}
	}

	return filtered
}
