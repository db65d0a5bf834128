package lsp

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// Hover handles textDocument/hover requests.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	sym, ok := symbolAt(doc.Content, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	content := hoverContent(sym, params.Position.Line)
	if content == "" {
		return nil, nil //nolint:nilnil
	}

	rng := toRange(sym.rng)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: &rng,
	}, nil
}

// hoverContent generates hover markdown for the symbol on line.
func hoverContent(sym symbol, line uint32) string {
	if sym.declared {
		return hoverBlock(sym.raw, sym.block)
	}

	if slices.Contains(scalarTypes(), sym.name) {
		return fmt.Sprintf("**%s** (scalar)", sym.name)
	}

	block, ok := psl.BlockAt(line, sym.lines)
	if !ok || !block.Type.Declarative() {
		return ""
	}

	idx := psl.FieldTypes(sym.lines, block, nil)
	if typ, ok := idx.Names[sym.name]; ok {
		return markdownCodeBlock(fmt.Sprintf("%s.%s %s", block.Name, sym.name, typ))
	}

	return ""
}

// hoverBlock renders the source of block, preceded by its /// doc comments.
func hoverBlock(raw []string, block psl.Block) string {
	start := int(block.Range.Start.Line)
	end := min(int(block.Range.End.Line), len(raw)-1)

	var doc []string

	for i := start - 1; i >= 0; i-- {
		line := strings.TrimSpace(raw[i])
		if !strings.HasPrefix(line, "///") {
			break
		}

		doc = append([]string{strings.TrimSpace(strings.TrimPrefix(line, "///"))}, doc...)
	}

	content := markdownCodeBlock(strings.Join(raw[start:end+1], "\n"))
	if len(doc) > 0 {
		content += "\n\n" + strings.Join(doc, "\n")
	}

	return content
}

// markdownCodeBlock wraps code in a prisma markdown code block.
func markdownCodeBlock(code string) string {
	return "```prisma\n" + code + "\n```"
}
