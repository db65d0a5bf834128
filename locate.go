package psl

import "strings"

// BlockAt returns the block whose range covers line.
// It relies on Blocks yielding in ascending start order and stops scanning as soon
// as a block starts below line.
func BlockAt(line uint32, lines []string) (Block, bool) {
	for block := range Blocks(lines) {
		if block.Range.Start.Line > line {
			return Block{}, false
		}

		if line <= block.Range.End.Line {
			return block, true
		}
	}

	return Block{}, false
}

// BlockByName returns the model, type, enum or view block named exactly name.
//
// Candidate lines are the ones mentioning both a block keyword and name; each is
// resolved to its enclosing block. The lookup fails unless exactly one distinct block
// carries the exact name, so duplicate declarations never resolve to a guess.
func BlockByName(name string, lines []string) (Block, bool) {
	if name == "" {
		return Block{}, false
	}

	var (
		found Block
		count int
	)

	seen := make(map[uint32]bool)

	for i, line := range lines {
		if !strings.Contains(line, name) || !mentionsDeclarativeKeyword(line) {
			continue
		}

		block, ok := BlockAt(uint32(i), lines) //nolint:gosec // G115: line counts are small
		if !ok || block.Name != name || !block.Type.Declarative() || seen[block.Range.Start.Line] {
			continue
		}

		seen[block.Range.Start.Line] = true
		found = block
		count++
	}

	if count != 1 {
		return Block{}, false
	}

	return found, true
}

func mentionsDeclarativeKeyword(line string) bool {
	for _, kind := range []BlockType{ModelBlock, TypeBlock, EnumBlock, ViewBlock} {
		if strings.Contains(line, string(kind)) {
			return true
		}
	}

	return false
}
