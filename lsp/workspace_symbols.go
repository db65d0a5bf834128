package lsp

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// SchemaExt is the file extension of Prisma schema files.
const SchemaExt = ".prisma"

// Symbols handles workspace/symbol requests.
// Searches block and field names across all .prisma files in the workspace.
// Open documents are searched from their in-memory content.
func (s *Server) Symbols(_ context.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	s.logger.Debug("Symbols",
		zap.String("query", params.Query))

	query := strings.ToLower(params.Query)

	var symbols []protocol.SymbolInformation

	// Sorted by URI, so results are stable between requests.
	open := make(map[protocol.DocumentURI]struct{})
	for _, doc := range s.openDocuments() {
		open[doc.URI] = struct{}{}
		symbols = append(symbols, extractWorkspaceSymbols(doc.URI, doc.Content, query)...)
	}

	if s.workspaceRoot == "" {
		return symbols, nil
	}

	// Walk workspace looking for .prisma files
	err := filepath.WalkDir(s.workspaceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}

		if d.IsDir() {
			if path != s.workspaceRoot && skipDir(d.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !strings.HasSuffix(path, SchemaExt) {
			return nil
		}

		uri := PathToURI(path)
		if _, ok := open[uri]; ok {
			return nil
		}

		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			s.logger.Debug("Skipping unreadable schema", zap.String("path", path), zap.Error(err))

			return nil
		}

		symbols = append(symbols, extractWorkspaceSymbols(uri, string(data), query)...)

		return nil
	})
	if err != nil {
		s.logger.Debug("Error walking workspace for symbols", zap.Error(err))
	}

	return symbols, nil
}

// skipDir reports whether a workspace directory is never searched.
func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// extractWorkspaceSymbols extracts the blocks and fields of content matching query.
func extractWorkspaceSymbols(uri protocol.DocumentURI, content, query string) []protocol.SymbolInformation {
	var symbols []protocol.SymbolInformation

	for _, block := range buildDocumentSymbols(content) {
		if matchesQuery(block.Name, query) {
			symbols = append(symbols, protocol.SymbolInformation{
				Name: block.Name,
				Kind: block.Kind,
				Location: protocol.Location{
					URI:   uri,
					Range: block.Range,
				},
			})
		}

		for _, child := range block.Children {
			if !matchesQuery(child.Name, query) {
				continue
			}

			symbols = append(symbols, protocol.SymbolInformation{
				Name: child.Name,
				Kind: child.Kind,
				Location: protocol.Location{
					URI:   uri,
					Range: child.Range,
				},
				ContainerName: block.Name,
			})
		}
	}

	return symbols
}

func matchesQuery(name, query string) bool {
	return query == "" || strings.Contains(strings.ToLower(name), query)
}
