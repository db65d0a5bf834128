package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
	"github.com/rlch/psl/analysis"
)

// Definition handles textDocument/definition requests.
// A type name jumps to the name in the header of the block declaring it.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
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

	s.logger.Debug("Definition at word",
		zap.String("word", sym.name),
		zap.Uint32("block.line", sym.block.Range.Start.Line))

	return []protocol.Location{{
		URI:   doc.URI,
		Range: declarationRange(sym.raw, sym.block),
	}}, nil
}

// symbol is the identifier under a cursor.
type symbol struct {
	name  string
	lines []string
	raw   []string
	// Range of the identifier on its line.
	rng psl.Range
	// block declares name when declared is set.
	block    psl.Block
	declared bool
}

// symbolAt finds the identifier touching pos and the block declaring it, if any.
func symbolAt(content string, pos protocol.Position) (symbol, bool) {
	raw := psl.RawLines(content)
	if int(pos.Line) >= len(raw) {
		return symbol{}, false
	}

	name, start, end, ok := analysis.WordAt(raw[pos.Line], pos.Character)
	if !ok {
		return symbol{}, false
	}

	sym := symbol{
		name:  name,
		lines: psl.Lines(content),
		raw:   raw,
		rng:   psl.NewRange(pos.Line, start, pos.Line, end),
	}
	sym.block, sym.declared = psl.BlockByName(name, sym.lines)

	return sym, true
}
