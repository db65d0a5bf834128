package lsp

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// pathPropertyRegexp matches a quoted output or url assignment on a raw line.
var pathPropertyRegexp = regexp.MustCompile(`^\s*(output|url)\s*=\s*"([^"]*)"`)

// sqliteURLPrefix marks a datasource url that points at a local file.
const sqliteURLPrefix = "file:"

// DocumentLink handles textDocument/documentLink requests.
// Returns links for generator output directories and SQLite database files,
// resolved against the directory of the schema.
func (s *Server) DocumentLink(_ context.Context, params *protocol.DocumentLinkParams) ([]protocol.DocumentLink, error) {
	s.logger.Debug("DocumentLink",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || !strings.HasPrefix(string(doc.URI), "file://") {
		return nil, nil
	}

	dir := filepath.Dir(URIToPath(doc.URI))
	lines := psl.Lines(doc.Content)
	raw := psl.RawLines(doc.Content)

	var links []protocol.DocumentLink

	for block := range psl.Blocks(lines) {
		if block.Type.Declarative() {
			continue
		}

		for n := block.Range.Start.Line + 1; n < block.Range.End.Line && int(n) < len(raw); n++ {
			link, ok := pathLink(raw[n], n, block.Type, dir)
			if ok {
				links = append(links, link)
			}
		}
	}

	return links, nil
}

// pathLink links the quoted path on line when it is a generator output or a
// SQLite datasource url.
func pathLink(line string, n uint32, kind psl.BlockType, dir string) (protocol.DocumentLink, bool) {
	m := pathPropertyRegexp.FindStringSubmatchIndex(line)
	if m == nil {
		return protocol.DocumentLink{}, false
	}

	property := line[m[2]:m[3]]
	start, end := m[4], m[5]
	value := line[start:end]

	switch {
	case kind == psl.GeneratorBlock && property == "output":
	case kind == psl.DatasourceBlock && property == "url" && strings.HasPrefix(value, sqliteURLPrefix):
		start += len(sqliteURLPrefix)
		value = value[len(sqliteURLPrefix):]

		if query := strings.IndexByte(value, '?'); query >= 0 {
			value = value[:query]
			end = start + query
		}
	default:
		return protocol.DocumentLink{}, false
	}

	if value == "" {
		return protocol.DocumentLink{}, false
	}

	target := value
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}

	return protocol.DocumentLink{
		Range: protocol.Range{
			Start: protocol.Position{Line: n, Character: psl.UTF16Len(line[:start])},
			End:   protocol.Position{Line: n, Character: psl.UTF16Len(line[:end])},
		},
		Target:  PathToURI(filepath.Clean(target)),
		Tooltip: "Open " + value,
	}, true
}
