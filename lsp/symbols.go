package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns one symbol per block with its fields or enum values as children.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	symbols := buildDocumentSymbols(doc.Content)

	// Convert to []any for the protocol
	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// buildDocumentSymbols creates a symbol tree from the blocks of content.
func buildDocumentSymbols(content string) []protocol.DocumentSymbol {
	lines := psl.Lines(content)
	raw := psl.RawLines(content)

	var symbols []protocol.DocumentSymbol

	for block := range psl.Blocks(lines) {
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           block.Name,
			Detail:         string(block.Type),
			Kind:           blockSymbolKind(block.Type),
			Range:          toRange(block.Range),
			SelectionRange: declarationRange(raw, block),
			Children:       memberSymbols(lines, raw, block),
		})
	}

	return symbols
}

// member is a field, enum value or property declared inside a block.
type member struct {
	line uint32
	name string
	typ  string
}

// blockMembers returns the declarations in the body of block, skipping comments
// and block attributes.
func blockMembers(lines []string, block psl.Block) []member {
	var members []member

	end := min(int(block.Range.End.Line), len(lines))
	for i := int(block.Range.Start.Line) + 1; i < end; i++ {
		line := lines[i]
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "@") {
			continue
		}

		words := strings.Fields(line)

		m := member{line: uint32(i), name: words[0]} //nolint:gosec // G115: line counts are small
		if len(words) > 1 && words[1] != "=" {
			m.typ = words[1]
		}

		members = append(members, m)
	}

	return members
}

func memberSymbols(lines, raw []string, block psl.Block) []protocol.DocumentSymbol {
	members := blockMembers(lines, block)
	if len(members) == 0 {
		return nil
	}

	kind := protocol.SymbolKindField

	switch block.Type {
	case psl.EnumBlock:
		kind = protocol.SymbolKindEnumMember
	case psl.DatasourceBlock, psl.GeneratorBlock:
		kind = protocol.SymbolKindProperty
	}

	children := make([]protocol.DocumentSymbol, 0, len(members))

	for _, m := range members {
		rng := lineRange(raw, m.line)
		children = append(children, protocol.DocumentSymbol{
			Name:           m.name,
			Detail:         m.typ,
			Kind:           kind,
			Range:          rng,
			SelectionRange: nameRangeOnLine(raw, m.line, m.name, rng),
		})
	}

	return children
}

// nameRangeOnLine narrows fallback to the first occurrence of name on raw line n.
func nameRangeOnLine(raw []string, n uint32, name string, fallback protocol.Range) protocol.Range {
	line := raw[n]

	idx := strings.Index(line, name)
	if idx < 0 {
		return fallback
	}

	start := psl.UTF16Len(line[:idx])

	return protocol.Range{
		Start: protocol.Position{Line: n, Character: start},
		End:   protocol.Position{Line: n, Character: start + psl.UTF16Len(name)},
	}
}

func blockSymbolKind(t psl.BlockType) protocol.SymbolKind {
	switch t {
	case psl.ModelBlock:
		return protocol.SymbolKindClass
	case psl.ViewBlock:
		return protocol.SymbolKindInterface
	case psl.TypeBlock:
		return protocol.SymbolKindStruct
	case psl.EnumBlock:
		return protocol.SymbolKindEnum
	case psl.DatasourceBlock:
		return protocol.SymbolKindModule
	case psl.GeneratorBlock:
		return protocol.SymbolKindPackage
	default:
		return protocol.SymbolKindObject
	}
}
