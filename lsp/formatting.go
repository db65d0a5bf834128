package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Formatting handles textDocument/formatting requests by running the schema
// engine's formatter.
func (s *Server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	s.logger.Debug("Formatting", zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	eng := s.schemaEngine()

	formatted, err := eng.Format(ctx, doc.Content)
	if err != nil {
		// An unformattable schema leaves the document alone.
		s.logger.Warn("Schema engine format failed",
			zap.String("engine", eng.Name()),
			zap.Error(err))

		return nil, nil
	}

	// If no change, return empty edits
	if formatted == doc.Content {
		return []protocol.TextEdit{}, nil
	}

	// Return a single edit that replaces the entire document
	return []protocol.TextEdit{
		{
			Range:   fullDocumentRange(doc.Content),
			NewText: formatted,
		},
	}, nil
}
