package lsp

import (
	"strings"
	"unicode"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/rlch/psl"
)

// toRange converts a psl.Range to an LSP protocol.Range.
// Both are 0-based with UTF-16 characters, so this is a field copy.
func toRange(r psl.Range) protocol.Range {
	return protocol.Range{
		Start: toPosition(r.Start),
		End:   toPosition(r.End),
	}
}

func toPosition(p psl.Position) protocol.Position {
	return protocol.Position{Line: p.Line, Character: p.Character}
}

func fromPosition(p protocol.Position) psl.Position {
	return psl.Position{Line: p.Line, Character: p.Character}
}

// URIToPath converts a file URI to a filesystem path.
// Non-file URIs are returned unchanged.
func URIToPath(u protocol.DocumentURI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return string(u)
	}

	return uri.URI(u).Filename()
}

// PathToURI converts a filesystem path to a file URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

// fullDocumentRange returns the range covering all of content.
func fullDocumentRange(content string) protocol.Range {
	raw := psl.RawLines(content)
	last := uint32(len(raw) - 1) //nolint:gosec // G115: line counts are small

	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: last, Character: psl.UTF16Len(raw[last])},
	}
}

// declarationRange returns the document range of block's name. The scanner
// reports header columns relative to the trimmed line, so they are shifted by
// the indentation of the raw header line.
func declarationRange(raw []string, block psl.Block) protocol.Range {
	rng := toRange(block.NameRange)

	line := int(block.NameRange.Start.Line)
	if line >= len(raw) {
		return rng
	}

	header := raw[line]
	indent := psl.UTF16Len(header[:len(header)-len(strings.TrimLeftFunc(header, unicode.IsSpace))])

	rng.Start.Character += indent
	rng.End.Character += indent

	return rng
}
