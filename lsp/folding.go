package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
)

// FoldingRanges handles textDocument/foldingRange requests.
// Returns folding ranges for blocks and runs of comment lines.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	lines := psl.Lines(doc.Content)

	var ranges []protocol.FoldingRange

	for block := range psl.Blocks(lines) {
		if block.Range.End.Line <= block.Range.Start.Line {
			continue
		}

		ranges = append(ranges, protocol.FoldingRange{
			StartLine: block.Range.Start.Line,
			EndLine:   block.Range.End.Line,
			Kind:      protocol.RegionFoldingRange,
		})
	}

	return append(ranges, commentFoldingRanges(lines)...), nil
}

// commentFoldingRanges folds each run of two or more consecutive comment lines.
func commentFoldingRanges(lines []string) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange

	start := -1

	for i := 0; i <= len(lines); i++ {
		if i < len(lines) && strings.HasPrefix(lines[i], "//") {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 && i-1 > start {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: uint32(start), //nolint:gosec // G115: line counts are small
				EndLine:   uint32(i - 1), //nolint:gosec // G115: line counts are small
				Kind:      protocol.CommentFoldingRange,
			})
		}

		start = -1
	}

	return ranges
}
