package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// DocumentHighlight handles textDocument/documentHighlight requests.
// Highlights the declaration of the block under the cursor and every field typed
// with it in the same document.
func (s *Server) DocumentHighlight(_ context.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	s.logger.Debug("DocumentHighlight",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	sym, ok := symbolAt(doc.Content, params.Position)
	if !ok || !sym.declared {
		return nil, nil
	}

	highlights := []protocol.DocumentHighlight{{
		Range: declarationRange(sym.raw, sym.block),
		Kind:  protocol.DocumentHighlightKindWrite,
	}}

	for _, loc := range typeUsages(doc.URI, sym.lines, sym.raw, sym.name) {
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: loc.Range,
			Kind:  protocol.DocumentHighlightKindRead,
		})
	}

	return highlights, nil
}
