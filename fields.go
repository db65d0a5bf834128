package psl

import (
	"iter"
	"strings"
)

// FieldType records where a declared type is used inside a block.
type FieldType struct {
	// Lines holds the document lines declaring a field of this type, in order.
	Lines []uint32
	// FieldName is the first field seen with this type.
	FieldName string
}

// FieldTypeIndex maps the fields of one block in both directions.
type FieldTypeIndex struct {
	// Types maps a declared type name to its usages.
	Types map[string]*FieldType
	// Names maps a field name to its declared type name.
	Names map[string]string
}

// FieldNames returns the names of the fields declared in block, in document order.
//
// Comment lines, block attributes (@@) and blank lines are skipped. When cursor is
// non-nil the cursor's line is skipped too, so the field being typed is not offered
// back to the user.
func FieldNames(lines []string, block Block, cursor *Position) []string {
	var names []string

	for _, line := range blockBody(lines, block, cursor) {
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "@@") {
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		names = append(names, words[0])
	}

	return names
}

// FieldTypes indexes the fields declared in block by type and by name.
//
// Only block attribute lines (@@) are skipped; a line needs at least two words to
// declare a field. cursor excludes the cursor's line as in FieldNames.
func FieldTypes(lines []string, block Block, cursor *Position) FieldTypeIndex {
	idx := FieldTypeIndex{
		Types: make(map[string]*FieldType),
		Names: make(map[string]string),
	}

	for lineNo, line := range blockBody(lines, block, cursor) {
		if strings.HasPrefix(line, "@@") {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 {
			continue
		}

		name, typ := words[0], words[1]

		if existing, ok := idx.Types[typ]; ok {
			existing.Lines = append(existing.Lines, lineNo)
		} else {
			idx.Types[typ] = &FieldType{Lines: []uint32{lineNo}, FieldName: name}
		}

		idx.Names[name] = typ
	}

	return idx
}

// blockBody yields the lines strictly between the header and closing lines of block,
// minus the cursor line when cursor is set.
func blockBody(lines []string, block Block, cursor *Position) iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		end := min(int(block.Range.End.Line), len(lines))

		for i := int(block.Range.Start.Line) + 1; i < end; i++ {
			lineNo := uint32(i) //nolint:gosec // G115: line counts are small
			if cursor != nil && cursor.Line == lineNo {
				continue
			}

			if !yield(lineNo, lines[i]) {
				return
			}
		}
	}
}
