// Package analysis classifies the syntactic context of a cursor in a schema line.
//
// The predicates here only look at the characters of a single line before the
// cursor column, so they keep working on half-typed attributes and unbalanced
// brackets.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rlch/psl"
)

// Property keywords that take a field list inside @relation.
const (
	PropertyFields     = "fields"
	PropertyReferences = "references"
)

// InsideBracketPair reports whether more open than close characters precede col.
func InsideBracketPair(line string, col uint32, open, closing byte) bool {
	opens, closes := countPair(psl.UTF16Prefix(line, col), open, closing)

	return opens > closes
}

// InsideFieldArgument reports whether col is nested at least two parentheses deep,
// i.e. inside a call within an attribute's argument list such as
// `@default(dbgenerated(|`.
func InsideFieldArgument(line string, col uint32) bool {
	opens, closes := countPair(psl.UTF16Prefix(line, col), '(', ')')

	return opens-closes >= 2
}

// InsideQuotedString reports whether an odd number of double quotes precede col.
// Escaped quotes are counted like any other.
func InsideQuotedString(line string, col uint32) bool {
	return strings.Count(psl.UTF16Prefix(line, col), `"`)%2 == 1
}

// InsideNamedProperty reports whether col is inside the bracketed list of the
// given property (PropertyFields or PropertyReferences).
//
// The cursor must be inside a [ ] pair. Of the two property keywords, the one
// appearing in the latest word wins; when both appear in the same word the later
// occurrence inside that word wins.
func InsideNamedProperty(line string, words []string, property string, col uint32) bool {
	if !InsideBracketPair(line, col, '[', ']') {
		return false
	}

	var (
		winner     string
		bestWord   = -1
		bestOffset = -1
	)

	for _, keyword := range []string{PropertyFields, PropertyReferences} {
		word, offset := lastOccurrence(words, keyword)
		if word < 0 {
			continue
		}

		if word > bestWord || (word == bestWord && offset > bestOffset) {
			winner, bestWord, bestOffset = keyword, word, offset
		}
	}

	return winner != "" && winner == property
}

// IsAfterFieldAndType reports whether the cursor is past a field's name and type,
// where attributes rather than a type are expected.
func IsAfterFieldAndType(line string, col uint32, words []string) bool {
	if len(words) > 2 {
		return true
	}

	before := psl.UTF16Prefix(line, col)
	if len(words) != 2 || before == "" {
		return false
	}

	last, _ := utf8.DecodeLastRuneInString(before)

	return last == '@' || unicode.IsSpace(last)
}

// IsFirstTokenOnLine reports whether the cursor is still on the line's first
// token: the line is blank, nothing word-like precedes the cursor, or the only
// word before the cursor ends exactly at it.
func IsFirstTokenOnLine(line string, col uint32) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}

	before := psl.UTF16Prefix(line, col)

	spans := identSpans(before)
	if len(spans) == 0 {
		return true
	}

	return len(spans) == 1 && spans[0][1] == len(before)
}

func countPair(s string, open, closing byte) (int, int) {
	var opens, closes int

	for i := range len(s) {
		switch s[i] {
		case open:
			opens++
		case closing:
			closes++
		}
	}

	return opens, closes
}

// lastOccurrence returns the index of the last word containing keyword and the
// byte offset of the keyword's last occurrence in it, or -1, -1.
func lastOccurrence(words []string, keyword string) (int, int) {
	for i := len(words) - 1; i >= 0; i-- {
		if offset := strings.LastIndex(words[i], keyword); offset >= 0 {
			return i, offset
		}
	}

	return -1, -1
}
