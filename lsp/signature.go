package lsp

import (
	"context"
	"slices"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// SignatureHelp handles textDocument/signatureHelp requests.
// Shows argument hints while typing attribute arguments like @relation(.
func (s *Server) SignatureHelp(_ context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	s.logger.Debug("SignatureHelp",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	line := psl.LineAt(doc.Content, params.Position.Line)

	call, ok := parseAttributeCall(psl.UTF16Prefix(line, params.Position.Character))
	if !ok {
		return nil, nil //nolint:nilnil
	}

	sig, ok := findSignature(call.name)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{sig.information()},
		ActiveSignature: 0,
		ActiveParameter: uint32(sig.activeParam(call)), //nolint:gosec // G115: argument counts are small
	}, nil
}

// attributeCall is an attribute whose argument list is open at the cursor.
type attributeCall struct {
	name string
	// commas counts top-level commas before the cursor.
	commas int
	// arg is the text of the argument being typed.
	arg string
}

// callFrame is an unclosed parenthesis or bracket.
type callFrame struct {
	name     string
	commas   int
	argStart int
}

// parseAttributeCall finds the innermost attribute argument list still open at
// the end of text. Commas and brackets inside strings are ignored.
func parseAttributeCall(text string) (attributeCall, bool) {
	var (
		stack    []callFrame
		inString bool
	)

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}

			continue
		}

		switch ch {
		case '"':
			inString = true
		case '(':
			stack = append(stack, callFrame{name: attributeNameBefore(text, i), argStart: i + 1})
		case '[':
			stack = append(stack, callFrame{argStart: i + 1})
		case ')', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				top := &stack[len(stack)-1]
				top.commas++
				top.argStart = i + 1
			}
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		frame := stack[i]
		if !strings.HasPrefix(frame.name, "@") {
			continue
		}

		return attributeCall{
			name:   frame.name,
			commas: frame.commas,
			arg:    strings.TrimSpace(text[frame.argStart:]),
		}, true
	}

	return attributeCall{}, false
}

// attributeNameBefore returns the attribute or function name ending at paren.
func attributeNameBefore(text string, paren int) string {
	start := paren
	for start > 0 && (isIdentChar(rune(text[start-1])) || text[start-1] == '@' || text[start-1] == '.') {
		start--
	}

	return text[start:paren]
}

// isIdentChar returns true if the character can be part of an identifier.
func isIdentChar(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}

// signature describes the arguments of an attribute. The first parameter is the
// one taken positionally.
type signature struct {
	name   string
	doc    string
	params []signatureParam
}

type signatureParam struct {
	name string
	typ  string
	doc  string
}

func (p signatureParam) label() string {
	return p.name + ": " + p.typ
}

func (sig signature) information() protocol.SignatureInformation {
	labels := make([]string, 0, len(sig.params))
	params := make([]protocol.ParameterInformation, 0, len(sig.params))

	for _, p := range sig.params {
		labels = append(labels, p.label())
		params = append(params, protocol.ParameterInformation{
			Label:         p.label(),
			Documentation: p.doc,
		})
	}

	return protocol.SignatureInformation{
		Label:         sig.name + "(" + strings.Join(labels, ", ") + ")",
		Documentation: sig.doc,
		Parameters:    params,
	}
}

// activeParam resolves a named argument to its parameter, falling back to the
// position of the argument.
func (sig signature) activeParam(call attributeCall) int {
	if name, _, ok := strings.Cut(call.arg, ":"); ok {
		name = strings.TrimSpace(name)

		if i := slices.IndexFunc(sig.params, func(p signatureParam) bool { return p.name == name }); i >= 0 {
			return i
		}
	}

	return min(call.commas, max(len(sig.params)-1, 0))
}

func findSignature(name string) (signature, bool) {
	i := slices.IndexFunc(attributeSignatures(), func(sig signature) bool { return sig.name == name })
	if i < 0 {
		return signature{}, false
	}

	return attributeSignatures()[i], true
}

func attributeSignatures() []signature {
	indexArgs := []signatureParam{
		{name: "fields", typ: "FieldReference[]", doc: "Fields covered by the constraint."},
		{name: "name", typ: "String?", doc: "Name used by the client API."},
		{name: "map", typ: "String?", doc: "Name of the constraint in the database."},
	}

	return []signature{
		{
			name:   "@default",
			doc:    "Sets a default value.",
			params: []signatureParam{{name: "value", typ: "Expression", doc: "A literal or a function such as now()."}},
		},
		{
			name: "@relation",
			doc:  "Configures a relation.",
			params: []signatureParam{
				{name: "name", typ: "String?", doc: "Disambiguates relations between the same models."},
				{name: "fields", typ: "FieldReference[]", doc: "Fields of this model holding the foreign key."},
				{name: "references", typ: "FieldReference[]", doc: "Fields of the related model being referenced."},
				{name: "onDelete", typ: "ReferentialAction?", doc: "Action when the referenced record is deleted."},
				{name: "onUpdate", typ: "ReferentialAction?", doc: "Action when the referenced record is updated."},
				{name: "map", typ: "String?", doc: "Name of the foreign key in the database."},
			},
		},
		{
			name:   "@map",
			doc:    "Maps the field to a differently named column.",
			params: []signatureParam{{name: "name", typ: "String", doc: "Column name in the database."}},
		},
		{
			name:   "@@id",
			doc:    "Composite primary key.",
			params: indexArgs,
		},
		{
			name:   "@@unique",
			doc:    "Composite unique constraint.",
			params: indexArgs,
		},
		{
			name: "@@index",
			doc:  "Index over one or more fields.",
			params: append(slices.Clone(indexArgs),
				signatureParam{name: "type", typ: "IndexType?", doc: "Index access method, such as Hash or Gin."}),
		},
		{
			name: "@@fulltext",
			doc:  "Full text index.",
			params: []signatureParam{
				{name: "fields", typ: "FieldReference[]", doc: "Fields covered by the index."},
				{name: "map", typ: "String?", doc: "Name of the index in the database."},
			},
		},
		{
			name:   "@@map",
			doc:    "Maps the block to a differently named table.",
			params: []signatureParam{{name: "name", typ: "String", doc: "Table name in the database."}},
		},
		{
			name:   "@@schema",
			doc:    "Database schema the block lives in.",
			params: []signatureParam{{name: "name", typ: "String", doc: "Schema name."}},
		},
	}
}
