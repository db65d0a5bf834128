package psl

import (
	"iter"
	"strings"
	"unicode"
)

// BlockType is the keyword that opens a top-level block.
type BlockType string

// Block kinds recognized by the scanner.
const (
	GeneratorBlock  BlockType = "generator"
	DatasourceBlock BlockType = "datasource"
	ModelBlock      BlockType = "model"
	TypeBlock       BlockType = "type"
	EnumBlock       BlockType = "enum"
	ViewBlock       BlockType = "view"
)

// BlockTypes returns every block keyword in the order they are offered as completions.
func BlockTypes() []BlockType {
	return []BlockType{DatasourceBlock, GeneratorBlock, ModelBlock, EnumBlock, TypeBlock, ViewBlock}
}

// Valid reports whether t is one of the six block keywords.
func (t BlockType) Valid() bool {
	switch t {
	case GeneratorBlock, DatasourceBlock, ModelBlock, TypeBlock, EnumBlock, ViewBlock:
		return true
	default:
		return false
	}
}

// Declarative reports whether blocks of this kind can be referenced as a field type.
func (t BlockType) Declarative() bool {
	switch t {
	case ModelBlock, TypeBlock, EnumBlock, ViewBlock:
		return true
	default:
		return false
	}
}

// Block is a top-level schema block spanning its header through its closing line.
type Block struct {
	Type      BlockType
	Range     Range
	NameRange Range
	Name      string
}

// Blocks returns the blocks found in lines, in ascending order of their start line.
//
// lines must be trimmed (see Lines). The sequence can be ranged over any number of
// times; each traversal rescans lines from the top.
//
// A header seen while another block is still open closes the open block on the line
// before the new header, so a user typing a new block above an unclosed one still
// gets both. A header that is never closed before the end of the document yields
// nothing.
func Blocks(lines []string) iter.Seq[Block] {
	return func(yield func(Block) bool) {
		var (
			open    bool
			current Block
		)

		for i, line := range lines {
			lineNo := uint32(i) //nolint:gosec // G115: line counts are small

			if kind, name, nameRange, ok := parseHeader(line, lineNo); ok {
				if open {
					prev := lineNo - 1
					current.Range.End = Position{Line: prev, Character: UTF16Len(lines[prev])}

					if !yield(current) {
						return
					}
				}

				current = Block{
					Type:      kind,
					Range:     Range{Start: Position{Line: lineNo}},
					NameRange: nameRange,
					Name:      name,
				}
				open = true

				continue
			}

			if open && strings.HasPrefix(line, "}") {
				current.Range.End = Position{Line: lineNo, Character: 1}
				open = false

				if !yield(current) {
					return
				}
			}
		}
	}
}

// parseHeader recognizes `<keyword> <Name> {` on a trimmed line.
func parseHeader(line string, lineNo uint32) (BlockType, string, Range, bool) {
	brace := strings.IndexByte(line, '{')
	if brace < 0 {
		return "", "", Range{}, false
	}

	keyword := line
	if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
		keyword = line[:idx]
	}

	kind := BlockType(keyword)
	if !kind.Valid() || brace < len(keyword) {
		return "", "", Range{}, false
	}

	rest := line[len(keyword):brace]

	name := strings.TrimSpace(rest)
	if name == "" {
		return "", "", Range{}, false
	}

	nameStart := len(keyword) + strings.Index(rest, name)
	startChar := UTF16Len(line[:nameStart])

	return kind, name, NewRange(lineNo, startChar, lineNo, startChar+UTF16Len(name)), true
}
