package psl

import (
	"strings"
	"unicode/utf8"
)

// Lines splits a document into its lines, each trimmed of surrounding whitespace.
// All block and field scanning works on this slice; line i of the result is
// line i of the document.
func Lines(text string) []string {
	lines := RawLines(text)
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	return lines
}

// RawLines splits a document into its lines without trimming.
// A trailing carriage return is dropped so CRLF documents index like LF ones.
func RawLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// LineAt returns raw line n of text, or "" when the document is shorter.
func LineAt(text string, n uint32) string {
	lines := RawLines(text)
	if int(n) >= len(lines) {
		return ""
	}

	return lines[n]
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) uint32 {
	var n uint32

	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}

	return n
}

// UTF16Prefix returns the longest prefix of s that spans at most col UTF-16
// code units. A column past the end of s yields s itself.
func UTF16Prefix(s string, col uint32) string {
	var units uint32

	for i, r := range s {
		width := uint32(1)
		if r >= 0x10000 {
			width = 2
		}

		if units+width > col {
			return s[:i]
		}

		units += width
	}

	return s
}

// OffsetToPosition converts a byte offset into text to a Position.
// Offsets past the end clamp to the end of the document.
func OffsetToPosition(text string, offset int) Position {
	offset = max(0, min(offset, len(text)))

	// Back up to a rune boundary so a mid-rune offset does not split a character.
	for offset > 0 && offset < len(text) && !utf8.RuneStart(text[offset]) {
		offset--
	}

	before := text[:offset]
	line := strings.Count(before, "\n")
	lineStart := strings.LastIndexByte(before, '\n') + 1

	return Position{
		Line:      uint32(line), //nolint:gosec // G115: line counts are small
		Character: UTF16Len(strings.TrimSuffix(before[lineStart:], "\r")),
	}
}
