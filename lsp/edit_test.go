package lsp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/protocol"
)

func TestServer_DocumentHighlight(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, navigationSchema)

	highlights, err := server.DocumentHighlight(context.Background(), &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: textDocumentPosition(protocol.Position{Line: 11, Character: 12}),
	})
	if err != nil {
		t.Fatalf("DocumentHighlight() error: %v", err)
	}

	want := []protocol.DocumentHighlight{
		{Range: rangeOf(1, 6, 10), Kind: protocol.DocumentHighlightKindWrite},
		{Range: rangeOf(9, 11, 15), Kind: protocol.DocumentHighlightKindRead},
		{Range: rangeOf(11, 11, 15), Kind: protocol.DocumentHighlightKindRead},
	}
	if diff := cmp.Diff(want, highlights); diff != "" {
		t.Errorf("DocumentHighlight() mismatch (-want +got):\n%s", diff)
	}

	none, err := server.DocumentHighlight(context.Background(), &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: textDocumentPosition(protocol.Position{Line: 2, Character: 9}),
	})
	if err != nil {
		t.Fatalf("DocumentHighlight() error: %v", err)
	}

	if len(none) != 0 {
		t.Errorf("DocumentHighlight() on a scalar = %v, want none", none)
	}
}

func TestServer_PrepareRename(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, navigationSchema)

	tests := []struct {
		name string
		pos  protocol.Position
		want *protocol.Range
	}{
		{name: "declaration", pos: protocol.Position{Line: 1, Character: 8}, want: ptr(rangeOf(1, 6, 10))},
		{name: "field type", pos: protocol.Position{Line: 9, Character: 13}, want: ptr(rangeOf(9, 11, 15))},
		{name: "field name", pos: protocol.Position{Line: 3, Character: 4}},
		{name: "scalar", pos: protocol.Position{Line: 3, Character: 10}},
		{name: "doc comment", pos: protocol.Position{Line: 0, Character: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := server.PrepareRename(context.Background(), &protocol.PrepareRenameParams{
				TextDocumentPositionParams: textDocumentPosition(tt.pos),
			})
			if err != nil {
				t.Fatalf("PrepareRename() error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PrepareRename() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServer_Rename(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, navigationSchema)

	const other = protocol.DocumentURI("file:///comments.prisma")
	openDocument(t, server, other, "model Comment {\n  id     Int  @id\n  author User\n}\n")

	edit, err := server.Rename(context.Background(), &protocol.RenameParams{
		TextDocumentPositionParams: textDocumentPosition(protocol.Position{Line: 9, Character: 12}),
		NewName:                    "Account",
	})
	if err != nil {
		t.Fatalf("Rename() error: %v", err)
	}

	if edit == nil {
		t.Fatal("Rename() returned no edit")
	}

	want := map[protocol.DocumentURI][]protocol.TextEdit{
		testURI: {
			{Range: rangeOf(1, 6, 10), NewText: "Account"},
			{Range: rangeOf(9, 11, 15), NewText: "Account"},
			{Range: rangeOf(11, 11, 15), NewText: "Account"},
		},
		other: {
			{Range: rangeOf(2, 9, 13), NewText: "Account"},
		},
	}
	if diff := cmp.Diff(want, edit.Changes); diff != "" {
		t.Errorf("Rename() mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_Rename_IndentedHeader(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, indentedSchema)

	tests := []struct {
		name string
		pos  protocol.Position
	}{
		{name: "from usage", pos: protocol.Position{Line: 4, Character: 10}},
		{name: "from declaration", pos: protocol.Position{Line: 0, Character: 11}},
	}

	want := map[protocol.DocumentURI][]protocol.TextEdit{
		testURI: {
			{Range: rangeOf(0, 8, 12), NewText: "Account"},
			{Range: rangeOf(4, 9, 13), NewText: "Account"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rng, err := server.PrepareRename(context.Background(), &protocol.PrepareRenameParams{
				TextDocumentPositionParams: textDocumentPosition(tt.pos),
			})
			if err != nil {
				t.Fatalf("PrepareRename() error: %v", err)
			}

			if rng == nil {
				t.Fatal("PrepareRename() = nil, want a range")
			}

			edit, err := server.Rename(context.Background(), &protocol.RenameParams{
				TextDocumentPositionParams: textDocumentPosition(tt.pos),
				NewName:                    "Account",
			})
			if err != nil {
				t.Fatalf("Rename() error: %v", err)
			}

			if edit == nil {
				t.Fatal("Rename() returned no edit")
			}

			if diff := cmp.Diff(want, edit.Changes); diff != "" {
				t.Errorf("Rename() mismatch (-want +got):\n%s", diff)
			}

			if got := applyEdits(indentedSchema, edit.Changes[testURI]); !strings.HasPrefix(got, "  model Account {\n") {
				t.Errorf("renamed schema = %q", got)
			}
		})
	}
}

// applyEdits applies single-line edits to content, last edit first.
func applyEdits(content string, edits []protocol.TextEdit) string {
	lines := strings.Split(content, "\n")

	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		line := lines[e.Range.Start.Line]
		lines[e.Range.Start.Line] = line[:e.Range.Start.Character] + e.NewText + line[e.Range.End.Character:]
	}

	return strings.Join(lines, "\n")
}

func TestServer_Rename_Rejected(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, navigationSchema)

	for _, newName := range []string{"", "1User", "User-2", "Post", "String", "model"} {
		t.Run(newName, func(t *testing.T) {
			t.Parallel()

			edit, err := server.Rename(context.Background(), &protocol.RenameParams{
				TextDocumentPositionParams: textDocumentPosition(protocol.Position{Line: 1, Character: 8}),
				NewName:                    newName,
			})
			if err == nil {
				t.Errorf("Rename(%q) = %+v, want an error", newName, edit)
			}
		})
	}
}

func TestServer_CodeAction(t *testing.T) {
	t.Parallel()

	const schema = "datasource db {\n  provider = \"postgresql\"\n}\n\nmodel User {\n  id      Int      @id\n  profile Profile?\n  role    Role\n}\n\nenum Role {\n  USER\n}\n"

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, schema)

	diag := protocol.Diagnostic{Range: rangeOf(6, 10, 17), Message: `Type "Profile" is neither a built-in type, nor refers to another model.`}

	actions, err := server.CodeAction(context.Background(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        protocol.Range{Start: protocol.Position{Line: 5}, End: protocol.Position{Line: 7}},
		Context:      protocol.CodeActionContext{Diagnostics: []protocol.Diagnostic{diag}},
	})
	if err != nil {
		t.Fatalf("CodeAction() error: %v", err)
	}

	end := protocol.Position{Line: 13, Character: 0}

	want := []protocol.CodeAction{
		{
			Title:       "Create model 'Profile'",
			Kind:        protocol.QuickFix,
			Diagnostics: []protocol.Diagnostic{diag},
			Edit: &protocol.WorkspaceEdit{Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				testURI: {{
					Range:   protocol.Range{Start: end, End: end},
					NewText: "\nmodel Profile {\n  id Int @id @default(autoincrement())\n}\n",
				}},
			}},
		},
		{
			Title:       "Create enum 'Profile'",
			Kind:        protocol.QuickFix,
			Diagnostics: []protocol.Diagnostic{diag},
			Edit: &protocol.WorkspaceEdit{Changes: map[protocol.DocumentURI][]protocol.TextEdit{
				testURI: {{
					Range:   protocol.Range{Start: end, End: end},
					NewText: "\nenum Profile {\n}\n",
				}},
			}},
		},
	}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Errorf("CodeAction() mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_CodeAction_MongoDB(t *testing.T) {
	t.Parallel()

	const schema = "datasource db {\n  provider = \"mongodb\"\n}\n\nmodel User {\n  id      String   @id @map(\"_id\")\n  address Address\n}"

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, schema)

	actions, err := server.CodeAction(context.Background(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        rangeOf(6, 10, 10),
	})
	if err != nil {
		t.Fatalf("CodeAction() error: %v", err)
	}

	titles := make([]string, 0, len(actions))
	for _, a := range actions {
		titles = append(titles, a.Title)
	}

	wantTitles := []string{"Create model 'Address'", "Create enum 'Address'", "Create type 'Address'"}
	if diff := cmp.Diff(wantTitles, titles); diff != "" {
		t.Fatalf("CodeAction() titles mismatch (-want +got):\n%s", diff)
	}

	// No trailing newline, so the new block is separated by a blank line.
	model := actions[0].Edit.Changes[testURI][0]
	wantText := "\n\nmodel Address {\n  id String @id @default(auto()) @map(\"_id\") @db.ObjectId\n}\n"

	if model.NewText != wantText {
		t.Errorf("NewText = %q, want %q", model.NewText, wantText)
	}

	if model.Range.Start != (protocol.Position{Line: 7, Character: 1}) {
		t.Errorf("edit starts at %+v, want the end of the document", model.Range.Start)
	}
}

func TestServer_SignatureHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		marked     string
		wantLabel  string
		wantActive uint32
	}{
		{
			name:       "default value",
			marked:     "model User {\n  id Int @id @default(|\n}",
			wantLabel:  "@default(value: Expression)",
			wantActive: 0,
		},
		{
			name:       "named relation argument",
			marked:     "model Post {\n  author User @relation(fields: [authorId], references: [|\n}",
			wantLabel:  "@relation(name: String?, fields: FieldReference[], references: FieldReference[], onDelete: ReferentialAction?, onUpdate: ReferentialAction?, map: String?)",
			wantActive: 2,
		},
		{
			name:       "commas inside lists do not advance",
			marked:     "model Post {\n  @@index([a, b|\n}",
			wantLabel:  "@@index(fields: FieldReference[], name: String?, map: String?, type: IndexType?)",
			wantActive: 0,
		},
		{
			name:       "positional then named",
			marked:     "model Post {\n  @@unique([a, b], map: \"a,b\", |\n}",
			wantLabel:  "@@unique(fields: FieldReference[], name: String?, map: String?)",
			wantActive: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content, pos := cursorAt(t, tt.marked)

			server, _ := newTestServer(t)
			openDocument(t, server, testURI, content)

			help, err := server.SignatureHelp(context.Background(), &protocol.SignatureHelpParams{
				TextDocumentPositionParams: textDocumentPosition(pos),
			})
			if err != nil {
				t.Fatalf("SignatureHelp() error: %v", err)
			}

			if help == nil || len(help.Signatures) != 1 {
				t.Fatalf("SignatureHelp() = %+v, want one signature", help)
			}

			if got := help.Signatures[0].Label; got != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got, tt.wantLabel)
			}

			if help.ActiveParameter != tt.wantActive {
				t.Errorf("ActiveParameter = %d, want %d", help.ActiveParameter, tt.wantActive)
			}
		})
	}
}

func TestServer_SignatureHelp_OutsideAttribute(t *testing.T) {
	t.Parallel()

	for _, marked := range []string{
		"model User {\n  id Int|\n}",
		"model User {\n  id Int @default(1)|\n}",
		"model User {\n  id Int @unknown(|\n}",
	} {
		content, pos := cursorAt(t, marked)

		server, _ := newTestServer(t)
		openDocument(t, server, testURI, content)

		help, err := server.SignatureHelp(context.Background(), &protocol.SignatureHelpParams{
			TextDocumentPositionParams: textDocumentPosition(pos),
		})
		if err != nil {
			t.Fatalf("SignatureHelp() error: %v", err)
		}

		if help != nil {
			t.Errorf("SignatureHelp(%q) = %+v, want nil", marked, help)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
