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

// CodeAction handles textDocument/codeAction requests.
// Offers to declare the block a field refers to when no block of that name
// exists in the document.
func (s *Server) CodeAction(_ context.Context, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	s.logger.Debug("CodeAction",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("startLine", params.Range.Start.Line),
		zap.Uint32("endLine", params.Range.End.Line),
		zap.Int("diagnosticCount", len(params.Context.Diagnostics)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	lines := psl.Lines(doc.Content)

	var actions []protocol.CodeAction

	seen := make(map[string]bool)

	for line := params.Range.Start.Line; line <= params.Range.End.Line && int(line) < len(lines); line++ {
		name, ok := undeclaredFieldType(lines, line)
		if !ok || seen[name] {
			continue
		}

		seen[name] = true

		actions = append(actions, createBlockActions(doc, lines, name, diagnosticsOnLine(params.Context.Diagnostics, line))...)
	}

	return actions, nil
}

// undeclaredFieldType returns the base type of the field on line when it names
// neither a scalar nor a block declared in the document.
func undeclaredFieldType(lines []string, line uint32) (string, bool) {
	block, ok := psl.BlockAt(line, lines)
	if !ok || !block.Type.Declarative() || block.Type == psl.EnumBlock || line == block.Range.Start.Line {
		return "", false
	}

	text := lines[line]
	if strings.HasPrefix(text, "//") || strings.HasPrefix(text, "@") {
		return "", false
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return "", false
	}

	name := psl.BaseTypeName(words[1])
	if validateBlockName(name) != nil || slices.Contains(scalarTypes(), name) {
		return "", false
	}

	for declared := range psl.Blocks(lines) {
		if declared.Name == name {
			return "", false
		}
	}

	return name, true
}

// createBlockActions builds one quick fix per block kind that could declare name,
// each appending an empty declaration to the end of the document.
func createBlockActions(doc Document, lines []string, name string, diags []protocol.Diagnostic) []protocol.CodeAction {
	kinds := []psl.BlockType{psl.ModelBlock, psl.EnumBlock}
	if compositeTypesAllowed(lines) {
		kinds = append(kinds, psl.TypeBlock)
	}

	end := fullDocumentRange(doc.Content).End

	separator := "\n\n"
	if strings.HasSuffix(doc.Content, "\n") {
		separator = "\n"
	}

	actions := make([]protocol.CodeAction, 0, len(kinds))

	for _, kind := range kinds {
		edit := protocol.WorkspaceEdit{
			Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				doc.URI: {{
					Range:   protocol.Range{Start: end, End: end},
					NewText: separator + blockTemplate(kind, name, lines),
				}},
			},
		}

		actions = append(actions, protocol.CodeAction{
			Title:       fmt.Sprintf("Create %s '%s'", kind, name),
			Kind:        protocol.QuickFix,
			Diagnostics: diags,
			Edit:        &edit,
		})
	}

	return actions
}

// blockTemplate returns a minimal declaration of kind named name. Models get an
// id field suited to the datasource provider.
func blockTemplate(kind psl.BlockType, name string, lines []string) string {
	if kind != psl.ModelBlock {
		return fmt.Sprintf("%s %s {\n}\n", kind, name)
	}

	id := "id Int @id @default(autoincrement())"
	if provider, _ := psl.DatasourceProvider(lines); provider == "mongodb" {
		id = `id String @id @default(auto()) @map("_id") @db.ObjectId`
	}

	return fmt.Sprintf("%s %s {\n  %s\n}\n", kind, name, id)
}

func diagnosticsOnLine(diags []protocol.Diagnostic, line uint32) []protocol.Diagnostic {
	var onLine []protocol.Diagnostic

	for _, d := range diags {
		if d.Range.Start.Line <= line && line <= d.Range.End.Line {
			onLine = append(onLine, d)
		}
	}

	return onLine
}
