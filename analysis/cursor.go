package analysis

import (
	"strings"

	"github.com/rlch/psl"
)

// Cursor bundles what the context predicates need about a cursor position in a
// document snapshot. Build it with NewCursor; it holds no reference to the text.
type Cursor struct {
	Position psl.Position

	// Lines are the trimmed document lines.
	Lines []string
	// Line is the raw text of the cursor's line.
	Line string
	// Before is the raw text of the cursor's line up to the cursor.
	Before string
	// Words are the whitespace-delimited words in Before.
	Words []string

	// Block is the block enclosing the cursor, valid when InBlock is set.
	Block   psl.Block
	InBlock bool
}

// NewCursor derives the cursor context for pos in text.
func NewCursor(text string, pos psl.Position) *Cursor {
	raw := psl.RawLines(text)

	c := &Cursor{
		Position: pos,
		Lines:    psl.Lines(text),
	}

	if int(pos.Line) < len(raw) {
		c.Line = raw[pos.Line]
	}

	c.Before = psl.UTF16Prefix(c.Line, pos.Character)
	c.Words = WordsBefore(c.Line, pos.Character)
	c.Block, c.InBlock = psl.BlockAt(pos.Line, c.Lines)

	return c
}

// OnHeader reports whether the cursor sits on its block's header line.
func (c *Cursor) OnHeader() bool {
	return c.InBlock && c.Block.Range.Start.Line == c.Position.Line
}

// InBlockOf reports whether the cursor is inside the body of a block of one of kinds.
func (c *Cursor) InBlockOf(kinds ...psl.BlockType) bool {
	if !c.InBlock || c.OnHeader() {
		return false
	}

	for _, kind := range kinds {
		if c.Block.Type == kind {
			return true
		}
	}

	return false
}

// FirstToken reports whether the cursor is on the first token of its line.
func (c *Cursor) FirstToken() bool {
	return IsFirstTokenOnLine(c.Line, c.Position.Character)
}

// InsideAttributeArgs reports whether the cursor is inside parentheses.
func (c *Cursor) InsideAttributeArgs() bool {
	return InsideBracketPair(c.Line, c.Position.Character, '(', ')')
}

// InsideList reports whether the cursor is inside square brackets.
func (c *Cursor) InsideList() bool {
	return InsideBracketPair(c.Line, c.Position.Character, '[', ']')
}

// InsideFieldArgument reports whether the cursor is inside a nested call.
func (c *Cursor) InsideFieldArgument() bool {
	return InsideFieldArgument(c.Line, c.Position.Character)
}

// InsideString reports whether the cursor is inside a quoted string.
func (c *Cursor) InsideString() bool {
	return InsideQuotedString(c.Line, c.Position.Character)
}

// InsideProperty reports whether the cursor is in the list of the named property.
func (c *Cursor) InsideProperty(property string) bool {
	return InsideNamedProperty(c.Line, c.Words, property, c.Position.Character)
}

// AfterFieldAndType reports whether attributes are expected at the cursor.
func (c *Cursor) AfterFieldAndType() bool {
	return IsAfterFieldAndType(c.Line, c.Position.Character, c.Words)
}

// Prefix returns the identifier characters typed immediately before the cursor.
func (c *Cursor) Prefix() string {
	i := len(c.Before)
	for i > 0 && isIdentByte(c.Before[i-1]) {
		i--
	}

	return c.Before[i:]
}

// DottedPath splits a dotted reference being typed before the cursor, such as
// `address.city.na`, into its completed segments ["address", "city"] and the
// partial last segment "na". ok is false when no dot precedes the cursor within
// the current reference.
func (c *Cursor) DottedPath() ([]string, string, bool) {
	i := len(c.Before)
	for i > 0 && (isIdentByte(c.Before[i-1]) || c.Before[i-1] == '.') {
		i--
	}

	ref := c.Before[i:]
	if !strings.Contains(ref, ".") {
		return nil, "", false
	}

	segments := strings.Split(ref, ".")
	path, partial := segments[:len(segments)-1], segments[len(segments)-1]

	for _, seg := range path {
		if seg == "" {
			return nil, "", false
		}
	}

	return path, partial, true
}

// FieldLineType returns the declared type on the cursor's line, if the line has
// at least a name and a type.
func (c *Cursor) FieldLineType() (string, bool) {
	words := strings.Fields(c.Line)
	if len(words) < 2 {
		return "", false
	}

	return psl.BaseTypeName(words[1]), true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
