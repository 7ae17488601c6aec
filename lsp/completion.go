package lsp

import (
	"context"
	"unicode/utf16"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/stnescript/stne/analysis"
)

// Completion handles textDocument/completion requests.
//
// The identifier being typed at the cursor is split off first, so a request
// at "v.Co" completes the members of v and keeps those starting with "Co".
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	linePrefix, ok := linePrefixAt(doc.Content, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	prefix, suggestions := s.engine.CompleteAt(linePrefix, doc.Content)
	if suggestions == nil {
		return nil, nil //nolint:nilnil
	}

	items := toCompletionItems(suggestions)

	s.logger.Debug("Completion result",
		zap.String("prefix", prefix),
		zap.Int("items", len(items)))

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

func toCompletionItems(suggestions []analysis.Suggestion) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(suggestions))

	for _, sg := range suggestions {
		items = append(items, protocol.CompletionItem{
			Label:  sg.Label,
			Kind:   completionItemKind(sg.Kind),
			Detail: sg.Signature,
		})
	}

	return items
}

func completionItemKind(k analysis.SuggestionKind) protocol.CompletionItemKind {
	switch k {
	case analysis.KindProperty:
		return protocol.CompletionItemKindProperty
	case analysis.KindMethod:
		return protocol.CompletionItemKindMethod
	case analysis.KindType:
		return protocol.CompletionItemKindClass
	default:
		return protocol.CompletionItemKindText
	}
}

// linePrefixAt returns the text of the cursor's line before the cursor. The
// LSP character offset counts UTF-16 code units.
func linePrefixAt(content string, pos protocol.Position) (string, bool) {
	line, ok := lineAt(content, int(pos.Line))
	if !ok {
		return "", false
	}

	units := 0
	for i, r := range line {
		if units >= int(pos.Character) {
			return line[:i], true
		}

		units += max(utf16.RuneLen(r), 1)
	}

	return line, true
}

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(max(utf16.RuneLen(r), 1))
	}

	return n
}
