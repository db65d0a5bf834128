package psl

import "strings"

// ResolveCompositeFields follows a dotted field path through composite types and
// returns the field names available at its end.
//
// path[0] is looked up in idx; its declared type must name a `type` block. With more
// segments left the walk continues inside that block, otherwise the block's field
// names are returned. Any segment whose type is unknown, ambiguous, or not a
// composite type ends the walk with nil. Recursion is bounded by len(path), so
// self-referencing composite types are safe.
func ResolveCompositeFields(lines []string, path []string, idx FieldTypeIndex) []string {
	if len(path) == 0 {
		return nil
	}

	head, rest := path[0], path[1:]

	typ, ok := idx.Names[head]
	if !ok {
		return nil
	}

	block, ok := BlockByName(BaseTypeName(typ), lines)
	if !ok || block.Type != TypeBlock {
		return nil
	}

	if len(rest) == 0 {
		return FieldNames(lines, block, nil)
	}

	return ResolveCompositeFields(lines, rest, FieldTypes(lines, block, nil))
}

// BaseTypeName strips the optional (?) and list ([]) modifiers from a declared type.
func BaseTypeName(typ string) string {
	typ = strings.TrimSuffix(typ, "?")
	typ = strings.TrimSuffix(typ, "[]")

	return typ
}
