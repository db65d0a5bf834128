// Package psl provides a fault-tolerant textual scanner for Prisma schema files.
//
// Everything in this package is a pure function of a document snapshot: blocks,
// fields and names are re-derived on every call and nothing is cached between
// calls. The scanner works line by line and tolerates unterminated blocks and
// half-typed tokens, so it can serve editor requests while the file is invalid.
package psl

import "fmt"

// Position is a zero-based location in a document.
// Character counts UTF-16 code units, matching the LSP convention.
type Position struct {
	Line      uint32
	Character uint32
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}

	return p.Character < o.Character
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a span between two positions. Start is never after End.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a range from line/character pairs.
func NewRange(startLine, startChar, endLine, endChar uint32) Range {
	return Range{
		Start: Position{Line: startLine, Character: startChar},
		End:   Position{Line: endLine, Character: endChar},
	}
}

// Contains reports whether pos lies within r, both ends inclusive.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && !r.End.Before(pos)
}

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return r.Contains(o.Start) && r.Contains(o.End)
}

// ContainsLine reports whether line is between the start and end lines of r.
func (r Range) ContainsLine(line uint32) bool {
	return line >= r.Start.Line && line <= r.End.Line
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}
