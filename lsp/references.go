package lsp

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// References handles textDocument/references requests.
// Finds every field typed with the block under the cursor, in the current
// document and in other open documents that do not declare a block of the same
// name themselves.
func (s *Server) References(_ context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	s.logger.Debug("References",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character),
		zap.Bool("includeDeclaration", params.Context.IncludeDeclaration))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	sym, ok := symbolAt(doc.Content, params.Position)
	if !ok || !sym.declared {
		return nil, nil
	}

	var locations []protocol.Location

	if params.Context.IncludeDeclaration {
		locations = append(locations, protocol.Location{URI: doc.URI, Range: declarationRange(sym.raw, sym.block)})
	}

	locations = append(locations, typeUsages(doc.URI, sym.lines, sym.raw, sym.name)...)
	locations = append(locations, s.foreignUsages(doc.URI, sym.name)...)

	s.logger.Debug("References found", zap.String("name", sym.name), zap.Int("count", len(locations)))

	return locations, nil
}

// foreignUsages returns the usages of typeName in open documents other than uri
// that do not declare a block of that name themselves.
func (s *Server) foreignUsages(uri protocol.DocumentURI, typeName string) []protocol.Location {
	var locations []protocol.Location

	for _, other := range s.openDocuments() {
		if other.URI == uri {
			continue
		}

		lines := psl.Lines(other.Content)
		if _, declared := psl.BlockByName(typeName, lines); declared {
			continue
		}

		locations = append(locations, typeUsages(other.URI, lines, psl.RawLines(other.Content), typeName)...)
	}

	return locations
}

// typeUsages returns the location of every field type naming typeName, ignoring
// optional and list modifiers, ordered by line.
func typeUsages(uri protocol.DocumentURI, lines, raw []string, typeName string) []protocol.Location {
	var locations []protocol.Location

	for block := range psl.Blocks(lines) {
		if !block.Type.Declarative() {
			continue
		}

		idx := psl.FieldTypes(lines, block, nil)

		for typ, usage := range idx.Types {
			if psl.BaseTypeName(typ) != typeName {
				continue
			}

			for _, line := range usage.Lines {
				if rng, ok := typeRange(raw, line, typeName); ok {
					locations = append(locations, protocol.Location{URI: uri, Range: rng})
				}
			}
		}
	}

	slices.SortFunc(locations, func(a, b protocol.Location) int {
		return cmp.Compare(a.Range.Start.Line, b.Range.Start.Line)
	})

	return locations
}

// typeRange locates the type word, the second word of raw line n, and returns the
// range of its typeName part.
func typeRange(raw []string, n uint32, typeName string) (protocol.Range, bool) {
	if int(n) >= len(raw) {
		return protocol.Range{}, false
	}

	line := raw[n]

	start := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
	if start < 0 {
		return protocol.Range{}, false
	}

	// Skip the field name, then the whitespace after it.
	nameEnd := strings.IndexFunc(line[start:], unicode.IsSpace)
	if nameEnd < 0 {
		return protocol.Range{}, false
	}

	rest := line[start+nameEnd:]
	typeStart := start + nameEnd + len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))

	if !strings.HasPrefix(line[typeStart:], typeName) {
		return protocol.Range{}, false
	}

	col := psl.UTF16Len(line[:typeStart])

	return protocol.Range{
		Start: protocol.Position{Line: n, Character: col},
		End:   protocol.Position{Line: n, Character: col + psl.UTF16Len(typeName)},
	}, true
}
