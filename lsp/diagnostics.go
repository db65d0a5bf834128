package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
	"github.com/rlch/psl/engine"
)

const diagnosticSource = "psl"

// publishDiagnostics lints doc with the schema engine, adds the scanner's own
// findings and publishes the result.
func (s *Server) publishDiagnostics(ctx context.Context, doc Document) {
	diagnostics := s.scanDiagnostics(doc.Content)

	eng := s.schemaEngine()

	found, err := eng.Lint(ctx, doc.Content)
	if err != nil {
		s.logger.Warn("Schema engine lint failed",
			zap.String("uri", string(doc.URI)),
			zap.String("engine", eng.Name()),
			zap.Error(err))
	}

	for _, d := range found {
		lspDiag := convertDiagnostic(doc.Content, d)
		s.logger.Debug("Publishing diagnostic",
			zap.Int("offset.start", d.Start),
			zap.Int("offset.end", d.End),
			zap.Uint32("lsp.start.line", lspDiag.Range.Start.Line),
			zap.Uint32("lsp.start.char", lspDiag.Range.Start.Character),
			zap.String("message", d.Message))
		diagnostics = append(diagnostics, lspDiag)
	}

	err = s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("Failed to publish diagnostics", zap.Error(err))
	}
}

// scanDiagnostics reports problems the line scanner notices on its own, such as
// a previewFeatures list that is not a JSON array of strings.
func (s *Server) scanDiagnostics(content string) []protocol.Diagnostic {
	lines := psl.Lines(content)
	raw := psl.RawLines(content)

	diagnostics := []protocol.Diagnostic{}

	psl.PreviewFeatures(lines, func(msg string) {
		line := previewFeaturesLine(lines)
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(raw, line),
			Severity: protocol.DiagnosticSeverityWarning,
			Source:   diagnosticSource,
			Message:  msg,
		})
	})

	return diagnostics
}

// convertDiagnostic converts an engine diagnostic to an LSP protocol.Diagnostic.
func convertDiagnostic(content string, d engine.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Warning {
		severity = protocol.DiagnosticSeverityWarning
	}

	return protocol.Diagnostic{
		Range:    toRange(d.Range(content)),
		Severity: severity,
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}

// previewFeaturesLine returns the first line declaring previewFeatures, or 0.
func previewFeaturesLine(lines []string) uint32 {
	for i, line := range lines {
		if strings.HasPrefix(line, "previewFeatures") {
			return uint32(i) //nolint:gosec // G115: line counts are small
		}
	}

	return 0
}

// lineRange spans the text of raw line n.
func lineRange(raw []string, n uint32) protocol.Range {
	var end uint32
	if int(n) < len(raw) {
		end = psl.UTF16Len(raw[n])
	}

	return protocol.Range{
		Start: protocol.Position{Line: n, Character: 0},
		End:   protocol.Position{Line: n, Character: end},
	}
}
