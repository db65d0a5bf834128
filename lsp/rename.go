package lsp

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

var (
	errInvalidName  = errors.New("invalid name")
	errNameConflict = errors.New("name already in use")
)

// PrepareRename handles textDocument/prepareRename requests.
// Only block names are renameable, either on their declaration or where a field
// is typed with them.
func (s *Server) PrepareRename(_ context.Context, params *protocol.PrepareRenameParams) (*protocol.Range, error) {
	s.logger.Debug("PrepareRename",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	sym, ok := renameTarget(doc, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	rng := toRange(sym.rng)

	return &rng, nil
}

// Rename handles textDocument/rename requests.
// Renames the block under the cursor along with every field typed with it, in
// this document and in open documents that rely on its declaration.
func (s *Server) Rename(_ context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	s.logger.Debug("Rename",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character),
		zap.String("newName", params.NewName))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	sym, ok := renameTarget(doc, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	if err := validateBlockName(params.NewName); err != nil {
		return nil, err
	}

	if params.NewName == sym.name {
		return nil, nil //nolint:nilnil
	}

	if err := checkRenameConflicts(sym.lines, params.NewName); err != nil {
		return nil, err
	}

	locations := []protocol.Location{{URI: doc.URI, Range: declarationRange(sym.raw, sym.block)}}
	locations = append(locations, typeUsages(doc.URI, sym.lines, sym.raw, sym.name)...)
	locations = append(locations, s.foreignUsages(doc.URI, sym.name)...)

	changes := make(map[protocol.DocumentURI][]protocol.TextEdit)
	for _, loc := range locations {
		changes[loc.URI] = append(changes[loc.URI], protocol.TextEdit{
			Range:   loc.Range,
			NewText: params.NewName,
		})
	}

	s.logger.Debug("Rename edits",
		zap.String("from", sym.name),
		zap.String("to", params.NewName),
		zap.Int("edits", len(locations)))

	return &protocol.WorkspaceEdit{Changes: changes}, nil
}

// renameTarget returns the symbol at pos when it sits on a block's declared name
// or on a field type naming that block.
func renameTarget(doc Document, pos protocol.Position) (symbol, bool) {
	sym, ok := symbolAt(doc.Content, pos)
	if !ok || !sym.declared {
		return symbol{}, false
	}

	if d := declarationRange(sym.raw, sym.block); psl.NewRange(d.Start.Line, d.Start.Character, d.End.Line, d.End.Character).Contains(fromPosition(pos)) {
		return sym, true
	}

	for _, loc := range typeUsages(doc.URI, sym.lines, sym.raw, sym.name) {
		if toRange(sym.rng) == loc.Range {
			return sym, true
		}
	}

	return symbol{}, false
}

// validateBlockName checks that name is a valid model, enum or type name.
func validateBlockName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", errInvalidName)
	}

	for i, r := range name {
		if i == 0 {
			if !isLetter(r) {
				return fmt.Errorf("%w: %q must start with a letter", errInvalidName, name)
			}

			continue
		}

		if !isLetter(r) && !isDigit(r) && r != '_' {
			return fmt.Errorf("%w: %q can only contain letters, digits and underscores", errInvalidName, name)
		}
	}

	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// checkRenameConflicts rejects names that are already declared, scalar types, or
// block keywords.
func checkRenameConflicts(lines []string, newName string) error {
	if slices.Contains(scalarTypes(), newName) {
		return fmt.Errorf("%w: %s is a scalar type", errNameConflict, newName)
	}

	if psl.BlockType(newName).Valid() {
		return fmt.Errorf("%w: %s is a keyword", errNameConflict, newName)
	}

	for block := range psl.Blocks(lines) {
		if block.Name == newName {
			return fmt.Errorf("%w: %s %s is already declared", errNameConflict, block.Type, newName)
		}
	}

	return nil
}
