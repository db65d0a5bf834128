package lsp_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"go.lsp.dev/protocol"
)

const completionSchema = `generator client {
  provider = "prisma-client-js"
}

model User {
  id    Int    @id
  email String @unique
  posts Post[]
}

model Post {
  id       Int  @id
  authorId Int
%s
}

type Address {
  city String
  zip  String
}

enum Role {
  USER
  ADMIN
}
`

func labels(items []protocol.CompletionItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Label)
	}

	return out
}

func containsLabel(items []protocol.CompletionItem, label string) bool {
	return slices.Contains(labels(items), label)
}

func findItem(items []protocol.CompletionItem, label string) (protocol.CompletionItem, bool) {
	for _, item := range items {
		if item.Label == label {
			return item, true
		}
	}

	return protocol.CompletionItem{}, false
}

func complete(t *testing.T, marked string) []protocol.CompletionItem {
	t.Helper()

	server, _ := newTestServer(t)

	content, pos := cursorAt(t, marked)
	openDocument(t, server, testURI, content)

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: textDocumentPosition(pos),
	})
	if err != nil {
		t.Fatalf("Completion() error: %v", err)
	}

	if list == nil {
		t.Fatal("Completion() returned nil list")
	}

	return list.Items
}

func inPost(line string) string {
	return fmt.Sprintf(completionSchema, line)
}

func replaceCursor(schema, ref string) string {
	return strings.Replace(schema, "address.|", ref, 1)
}

func TestServer_Completion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
		notWant []string
	}{
		{
			name:    "block keywords at top level",
			content: "|",
			want:    []string{"model", "enum", "type", "view", "datasource", "generator"},
		},
		{
			name:    "block keywords filtered by prefix",
			content: "mo|",
			want:    []string{"model"},
			notWant: []string{"enum"},
		},
		{
			name:    "datasource properties not yet assigned",
			content: "datasource db {\n  provider = \"postgresql\"\n  |\n}",
			want:    []string{"url", "directUrl"},
			notWant: []string{"provider"},
		},
		{
			name:    "generator properties",
			content: "generator client {\n  |\n}",
			want:    []string{"provider", "output", "previewFeatures"},
		},
		{
			name:    "datasource provider values",
			content: "datasource db {\n  provider = \"|\"\n}",
			want:    []string{"postgresql", "mysql", "mongodb"},
			notWant: []string{"prisma-client-js"},
		},
		{
			name:    "generator provider values",
			content: "generator client {\n  provider = \"|\"\n}",
			want:    []string{"prisma-client-js"},
			notWant: []string{"postgresql"},
		},
		{
			name:    "preview features not yet enabled",
			content: "generator client {\n  previewFeatures = [\"views\", \"|\"]\n}",
			want:    []string{"relationJoins", "multiSchema"},
			notWant: []string{"views"},
		},
		{
			name:    "field types",
			content: inPost("  author |"),
			want:    []string{"String", "DateTime", "User", "Post", "Role", "Address"},
		},
		{
			name:    "field types filtered by prefix",
			content: inPost("  author Us|"),
			want:    []string{"User"},
			notWant: []string{"String", "Post"},
		},
		{
			name:    "field attributes after type",
			content: inPost("  title String |"),
			want:    []string{"@id", "@unique", "@default", "@relation"},
		},
		{
			name:    "field attributes skip those already present",
			content: inPost("  title String @unique |"),
			want:    []string{"@default"},
			notWant: []string{"@unique"},
		},
		{
			name:    "default functions",
			content: inPost("  createdAt DateTime @default(|"),
			want:    []string{"now", "autoincrement", "uuid"},
		},
		{
			name:    "nothing inside a nested call",
			content: inPost("  id String @default(dbgenerated(|"),
		},
		{
			name:    "block attributes",
			content: inPost("  @@|"),
			want:    []string{"@@id", "@@unique", "@@index", "@@map"},
			notWant: []string{"@@fulltext"},
		},
		{
			name:    "relation fields of the enclosing model",
			content: inPost("  author User @relation(fields: [|"),
			want:    []string{"id", "authorId"},
			notWant: []string{"author", "email"},
		},
		{
			name:    "referenced model fields",
			content: inPost("  author User @relation(fields: [authorId], references: [|"),
			want:    []string{"id", "email", "posts"},
			notWant: []string{"authorId"},
		},
		{
			name:    "block fields inside an index",
			content: inPost("  @@index([|"),
			want:    []string{"id", "authorId"},
		},
		{
			name:    "nothing on a new field name",
			content: inPost("  auth|"),
		},
		{
			name:    "nothing inside a string",
			content: inPost("  title String @map(\"ti|"),
		},
		{
			name:    "nothing in enum values",
			content: "enum Role {\n  |\n}",
		},
		{
			name:    "nothing on a header",
			content: "model User {|\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items := complete(t, tt.content)

			if len(tt.want) == 0 && len(tt.notWant) == 0 && len(items) != 0 {
				t.Fatalf("expected no completions, got %v", labels(items))
			}

			for _, label := range tt.want {
				if !containsLabel(items, label) {
					t.Errorf("missing %q in %v", label, labels(items))
				}
			}

			for _, label := range tt.notWant {
				if containsLabel(items, label) {
					t.Errorf("unexpected %q in %v", label, labels(items))
				}
			}
		})
	}
}

func TestServer_Completion_CompositePath(t *testing.T) {
	t.Parallel()

	schema := `model User {
  id      Int     @id
  address Address
  @@index([address.|
}

type Address {
  city Location
  zip  String
}

type Location {
  name String
  code String
}`

	items := complete(t, schema)
	if got := labels(items); !slices.Equal(got, []string{"city", "zip"}) {
		t.Errorf("labels = %v, want [city zip]", got)
	}

	nested := complete(t, replaceCursor(schema, "address.city.|"))
	if got := labels(nested); !slices.Equal(got, []string{"name", "code"}) {
		t.Errorf("nested labels = %v, want [name code]", got)
	}

	unknown := complete(t, replaceCursor(schema, "address.nope.|"))
	if len(unknown) != 0 {
		t.Errorf("unknown path labels = %v, want none", labels(unknown))
	}
}

func TestServer_Completion_AttributeInsertText(t *testing.T) {
	t.Parallel()

	items := complete(t, inPost("  @@in|"))

	item, ok := findItem(items, "@@index")
	if !ok {
		t.Fatalf("missing @@index in %v", labels(items))
	}

	if item.InsertText != "index([$0])" {
		t.Errorf("InsertText = %q, want the typed @@ stripped", item.InsertText)
	}

	items = complete(t, inPost("  title String @de|"))

	item, ok = findItem(items, "@default")
	if !ok {
		t.Fatalf("missing @default in %v", labels(items))
	}

	if item.InsertText != "default($0)" {
		t.Errorf("InsertText = %q, want the typed @ stripped", item.InsertText)
	}
}

func TestServer_Completion_ProviderSpecific(t *testing.T) {
	t.Parallel()

	mongo := "datasource db {\n  provider = \"mongodb\"\n}\n\nmodel User {\n  id String @id\n  @@|\n}"
	if items := complete(t, mongo); !containsLabel(items, "@@fulltext") {
		t.Errorf("expected @@fulltext for mongodb, got %v", labels(items))
	}

	postgres := "datasource db {\n  provider = \"postgresql\"\n}\n\ntype Address {\n  city String\n}\n\nmodel User {\n  id Int @id\n  home |\n}"
	if items := complete(t, postgres); containsLabel(items, "Address") {
		t.Errorf("composite types are mongodb only, got %v", labels(items))
	}
}

func TestServer_Completion_UnknownDocument(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(t)

	list, err := server.Completion(context.Background(), &protocol.CompletionParams{
		TextDocumentPositionParams: textDocumentPosition(protocol.Position{}),
	})
	if err != nil || list != nil {
		t.Errorf("Completion() = %v, %v; want nil, nil", list, err)
	}
}
