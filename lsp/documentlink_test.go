package lsp_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.lsp.dev/protocol"
)

func TestServer_DocumentLink(t *testing.T) {
	t.Parallel()

	const (
		uri    = protocol.DocumentURI("file:///project/prisma/schema.prisma")
		schema = `datasource db {
  provider = "sqlite"
  url      = "file:./dev.db?connection_limit=1"
}

generator client {
  provider = "prisma-client-js"
  output   = "../generated/client"
}

model Log {
  output String
}
`
	)

	server, _ := newTestServer(t)
	openDocument(t, server, uri, schema)

	links, err := server.DocumentLink(context.Background(), &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatalf("DocumentLink() error: %v", err)
	}

	want := []protocol.DocumentLink{
		{
			Range:   rangeOf(2, 19, 27),
			Target:  "file:///project/prisma/dev.db",
			Tooltip: "Open ./dev.db",
		},
		{
			Range:   rangeOf(7, 14, 33),
			Target:  "file:///project/generated/client",
			Tooltip: "Open ../generated/client",
		},
	}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("DocumentLink() mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_DocumentLink_Skipped(t *testing.T) {
	t.Parallel()

	const schema = "datasource db {\n  provider = \"postgresql\"\n  url      = env(\"DATABASE_URL\")\n}\n\ngenerator client {\n  provider = \"prisma-client-js\"\n}\n"

	server, _ := newTestServer(t)
	openDocument(t, server, testURI, schema)

	links, err := server.DocumentLink(context.Background(), &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	if err != nil {
		t.Fatalf("DocumentLink() error: %v", err)
	}

	if len(links) != 0 {
		t.Errorf("DocumentLink() = %+v, want none", links)
	}

	const untitled = protocol.DocumentURI("untitled:Untitled-1")
	openDocument(t, server, untitled, "generator client {\n  output = \"./out\"\n}\n")

	links, err = server.DocumentLink(context.Background(), &protocol.DocumentLinkParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: untitled},
	})
	if err != nil {
		t.Fatalf("DocumentLink() error: %v", err)
	}

	if links != nil {
		t.Errorf("DocumentLink() on an unsaved document = %+v, want nil", links)
	}
}
