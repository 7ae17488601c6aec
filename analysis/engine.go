package analysis

import (
	"strings"

	"go.uber.org/zap"

	"github.com/stnescript/stne/catalog"
)

// typeKeywords are the words after which a type name is expected.
var typeKeywords = map[string]bool{
	"New": true,
	"As":  true,
}

// Engine answers completion queries against a catalog.
type Engine struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewEngine returns an engine reading types from c.
func NewEngine(c *catalog.Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{catalog: c, logger: logger}
}

// Complete returns the suggestions for a cursor placed after linePrefix, the
// text of the cursor's line up to the cursor. documentText is the whole
// document. It returns nil when nothing applies.
func (e *Engine) Complete(linePrefix, documentText string) []Suggestion {
	snap := e.catalog.Snapshot()

	if strings.HasSuffix(linePrefix, ".") {
		return e.completeMembers(snap, linePrefix, documentText)
	}

	if ExpectsTypeName(linePrefix) {
		return TypeNameSuggestions(snap.Types())
	}

	return nil
}

// CompleteAt is Complete for a cursor that may sit inside a partly typed
// identifier, as in "v.Co". The identifier is split off before resolving and
// the suggestions are narrowed to labels starting with it. The identifier is
// returned along with the suggestions.
//
// A bare "New" or "As" still being typed is a keyword, not a type name
// prefix, so it yields nothing until the space after it. After a dot the
// same word is a member prefix as usual.
func (e *Engine) CompleteAt(linePrefix, documentText string) (string, []Suggestion) {
	word := WordPrefix(linePrefix)
	base := linePrefix[:len(linePrefix)-len(word)]

	if typeKeywords[word] && !strings.HasSuffix(base, ".") {
		return word, nil
	}

	suggestions := e.Complete(base, documentText)
	if suggestions == nil {
		return word, nil
	}

	return word, FilterByPrefix(suggestions, word)
}

func (e *Engine) completeMembers(snap *catalog.Snapshot, linePrefix, documentText string) []Suggestion {
	chain, ok := ExtractChain(linePrefix)
	if !ok {
		return nil
	}

	t, ok := Resolve(snap, chain, documentText)
	if !ok {
		e.logger.Debug("Chain did not resolve", zap.Strings("chain", chain))
		return nil
	}

	e.logger.Debug("Chain resolved",
		zap.Strings("chain", chain),
		zap.String("type", t.Name))

	return BuildSuggestions(t)
}

// ExpectsTypeName reports whether the word before the last space of linePrefix
// is "New" or "As" (case-sensitive).
func ExpectsTypeName(linePrefix string) bool {
	words := strings.Split(linePrefix, " ")
	if len(words) < 2 {
		return false
	}

	return typeKeywords[words[len(words)-2]]
}
