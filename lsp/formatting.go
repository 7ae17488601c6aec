package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/stnescript/stne"
)

// Formatting handles textDocument/formatting requests with one edit that
// replaces the whole document. The editor's tab size is ignored; indentation
// comes from the project config and the scriptSupportSTNE client settings.
func (s *Server) Formatting(_ context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.logger.Debug("Formatting", zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	opts := s.formatOptions()

	formatted, err := stne.Format(doc.Content, opts, s.opts.Beautifier)
	if err != nil {
		s.logger.Warn("Formatting failed", zap.String("uri", string(doc.URI)), zap.Error(err))
		return nil, err
	}

	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range:   fullRange(doc.Content),
		NewText: formatted,
	}}, nil
}

// fullRange spans content from the first character to the end of its last line.
func fullRange(content string) protocol.Range {
	lastLine := strings.Count(content, "\n")

	tail := content
	if i := strings.LastIndexByte(content, '\n'); i >= 0 {
		tail = content[i+1:]
	}

	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: uint32(lastLine), Character: utf16Len(tail)},
	}
}
