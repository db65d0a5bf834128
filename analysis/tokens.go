package analysis

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/rlch/psl"
)

// wordLexer splits a line into whitespace-delimited words.
var wordLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// identLexer splits a line into identifier runs and everything else.
var identLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `\w+`},
	{Name: "Other", Pattern: `[^\w]+`},
})

// lexTokens returns the tokens of the given type in s. Both lexers accept any
// input, so a lexing error only happens on invalid UTF-8 and yields nil.
func lexTokens(def *lexer.StatefulDefinition, typ, s string) []lexer.Token {
	lex, err := def.LexString("", s)
	if err != nil {
		return nil
	}

	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil
	}

	want := def.Symbols()[typ]

	var out []lexer.Token

	for _, tok := range tokens {
		if tok.Type == want {
			out = append(out, tok)
		}
	}

	return out
}

// WordsBefore returns the whitespace-delimited words on line before the UTF-16
// column col.
func WordsBefore(line string, col uint32) []string {
	tokens := lexTokens(wordLexer, "Word", psl.UTF16Prefix(line, col))

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Value)
	}

	return words
}

// WordAt returns the identifier touching the UTF-16 column col on line, together
// with its start and end columns. A cursor right after the last character of an
// identifier still counts as touching it.
func WordAt(line string, col uint32) (string, uint32, uint32, bool) {
	for _, tok := range lexTokens(identLexer, "Ident", line) {
		start := psl.UTF16Len(line[:tok.Pos.Offset])
		end := start + psl.UTF16Len(tok.Value)

		if col >= start && col <= end {
			return tok.Value, start, end, true
		}
	}

	return "", 0, 0, false
}

// identSpans returns the byte spans of identifier runs in s.
func identSpans(s string) [][2]int {
	tokens := lexTokens(identLexer, "Ident", s)

	spans := make([][2]int, 0, len(tokens))
	for _, tok := range tokens {
		spans = append(spans, [2]int{tok.Pos.Offset, tok.Pos.Offset + len(tok.Value)})
	}

	return spans
}
