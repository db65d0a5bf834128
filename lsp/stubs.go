package lsp

import (
	"context"

	"go.lsp.dev/protocol"
)

// Requests below either have no meaning for a Prisma schema or are answered
// eagerly elsewhere. They complete protocol.Server.

// A schema declares each block once and a field's type is that block, so
// declaration and type definition both resolve to the block header.

// Declaration handles textDocument/declaration.
func (s *Server) Declaration(ctx context.Context, params *protocol.DeclarationParams) ([]protocol.Location, error) {
	return s.Definition(ctx, &protocol.DefinitionParams{TextDocumentPositionParams: params.TextDocumentPositionParams})
}

// TypeDefinition handles textDocument/typeDefinition.
func (s *Server) TypeDefinition(ctx context.Context, params *protocol.TypeDefinitionParams) ([]protocol.Location, error) {
	return s.Definition(ctx, &protocol.DefinitionParams{TextDocumentPositionParams: params.TextDocumentPositionParams})
}

// Completion items and document links are sent complete, so resolving returns
// them unchanged.

// CompletionResolve handles completionItem/resolve.
func (s *Server) CompletionResolve(_ context.Context, item *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	return item, nil
}

// DocumentLinkResolve handles documentLink/resolve.
func (s *Server) DocumentLinkResolve(_ context.Context, link *protocol.DocumentLink) (*protocol.DocumentLink, error) {
	return link, nil
}

// Tracing.

// WorkDoneProgressCancel handles window/workDoneProgress/cancel.
func (s *Server) WorkDoneProgressCancel(context.Context, *protocol.WorkDoneProgressCancelParams) error {
	return nil
}

// LogTrace handles $/logTrace.
func (s *Server) LogTrace(context.Context, *protocol.LogTraceParams) error { return nil }

// SetTrace handles $/setTrace.
func (s *Server) SetTrace(context.Context, *protocol.SetTraceParams) error { return nil }

// Workspace notifications. Configuration is read once from psl.yaml at
// initialization.

// DidChangeConfiguration handles workspace/didChangeConfiguration.
func (s *Server) DidChangeConfiguration(context.Context, *protocol.DidChangeConfigurationParams) error {
	return nil
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles.
func (s *Server) DidChangeWatchedFiles(context.Context, *protocol.DidChangeWatchedFilesParams) error {
	return nil
}

// DidChangeWorkspaceFolders handles workspace/didChangeWorkspaceFolders.
func (s *Server) DidChangeWorkspaceFolders(context.Context, *protocol.DidChangeWorkspaceFoldersParams) error {
	return nil
}

// ExecuteCommand handles workspace/executeCommand. No commands are registered.
func (s *Server) ExecuteCommand(context.Context, *protocol.ExecuteCommandParams) (any, error) {
	return nil, nil
}

// File operations. Schemas are scanned from open documents and the workspace
// walk, so nothing is cached per file.

// WillCreateFiles handles workspace/willCreateFiles.
func (s *Server) WillCreateFiles(context.Context, *protocol.CreateFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, nil //nolint:nilnil
}

// DidCreateFiles handles workspace/didCreateFiles.
func (s *Server) DidCreateFiles(context.Context, *protocol.CreateFilesParams) error { return nil }

// WillRenameFiles handles workspace/willRenameFiles.
func (s *Server) WillRenameFiles(context.Context, *protocol.RenameFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, nil //nolint:nilnil
}

// DidRenameFiles handles workspace/didRenameFiles.
func (s *Server) DidRenameFiles(context.Context, *protocol.RenameFilesParams) error { return nil }

// WillDeleteFiles handles workspace/willDeleteFiles.
func (s *Server) WillDeleteFiles(context.Context, *protocol.DeleteFilesParams) (*protocol.WorkspaceEdit, error) {
	return nil, nil //nolint:nilnil
}

// DidDeleteFiles handles workspace/didDeleteFiles.
func (s *Server) DidDeleteFiles(context.Context, *protocol.DeleteFilesParams) error { return nil }

// WillSave handles textDocument/willSave.
func (s *Server) WillSave(context.Context, *protocol.WillSaveTextDocumentParams) error { return nil }

// WillSaveWaitUntil handles textDocument/willSaveWaitUntil. Format on save goes
// through Formatting.
func (s *Server) WillSaveWaitUntil(context.Context, *protocol.WillSaveTextDocumentParams) ([]protocol.TextEdit, error) {
	return nil, nil
}

// Formatting is whole-document only: the engine formats complete schemas.

// RangeFormatting handles textDocument/rangeFormatting.
func (s *Server) RangeFormatting(context.Context, *protocol.DocumentRangeFormattingParams) ([]protocol.TextEdit, error) {
	return nil, nil
}

// OnTypeFormatting handles textDocument/onTypeFormatting.
func (s *Server) OnTypeFormatting(context.Context, *protocol.DocumentOnTypeFormattingParams) ([]protocol.TextEdit, error) {
	return nil, nil
}

// Features a schema has nothing to offer for: no colors, calls, interfaces or
// cross-project symbols.

// CodeLens handles textDocument/codeLens.
func (s *Server) CodeLens(context.Context, *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	return nil, nil
}

// CodeLensResolve handles codeLens/resolve.
func (s *Server) CodeLensResolve(_ context.Context, lens *protocol.CodeLens) (*protocol.CodeLens, error) {
	return lens, nil
}

// CodeLensRefresh handles workspace/codeLens/refresh.
func (s *Server) CodeLensRefresh(context.Context) error { return nil }

// DocumentColor handles textDocument/documentColor.
func (s *Server) DocumentColor(context.Context, *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	return nil, nil
}

// ColorPresentation handles textDocument/colorPresentation.
func (s *Server) ColorPresentation(context.Context, *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	return nil, nil
}

// Implementation handles textDocument/implementation.
func (s *Server) Implementation(context.Context, *protocol.ImplementationParams) ([]protocol.Location, error) {
	return nil, nil
}

// PrepareCallHierarchy handles textDocument/prepareCallHierarchy.
func (s *Server) PrepareCallHierarchy(context.Context, *protocol.CallHierarchyPrepareParams) ([]protocol.CallHierarchyItem, error) {
	return nil, nil
}

// IncomingCalls handles callHierarchy/incomingCalls.
func (s *Server) IncomingCalls(context.Context, *protocol.CallHierarchyIncomingCallsParams) ([]protocol.CallHierarchyIncomingCall, error) {
	return nil, nil
}

// OutgoingCalls handles callHierarchy/outgoingCalls.
func (s *Server) OutgoingCalls(context.Context, *protocol.CallHierarchyOutgoingCallsParams) ([]protocol.CallHierarchyOutgoingCall, error) {
	return nil, nil
}

// LinkedEditingRange handles textDocument/linkedEditingRange.
func (s *Server) LinkedEditingRange(context.Context, *protocol.LinkedEditingRangeParams) (*protocol.LinkedEditingRanges, error) {
	return nil, nil //nolint:nilnil
}

// Moniker handles textDocument/moniker.
func (s *Server) Moniker(context.Context, *protocol.MonikerParams) ([]protocol.Moniker, error) {
	return nil, nil
}

// ShowDocument handles window/showDocument.
func (s *Server) ShowDocument(context.Context, *protocol.ShowDocumentParams) (*protocol.ShowDocumentResult, error) {
	return nil, nil //nolint:nilnil
}

// Highlighting comes from the client's TextMate grammar.

// SemanticTokensFull handles textDocument/semanticTokens/full.
func (s *Server) SemanticTokensFull(context.Context, *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	return nil, nil //nolint:nilnil
}

// SemanticTokensFullDelta handles textDocument/semanticTokens/full/delta.
func (s *Server) SemanticTokensFullDelta(context.Context, *protocol.SemanticTokensDeltaParams) (any, error) {
	return nil, nil
}

// SemanticTokensRange handles textDocument/semanticTokens/range.
func (s *Server) SemanticTokensRange(context.Context, *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	return nil, nil //nolint:nilnil
}

// SemanticTokensRefresh handles workspace/semanticTokens/refresh.
func (s *Server) SemanticTokensRefresh(context.Context) error { return nil }

// Request handles custom requests. None are defined.
func (s *Server) Request(context.Context, string, any) (any, error) { return nil, nil }
