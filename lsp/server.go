// Package lsp implements a Language Server Protocol server for Prisma schemas.
//
// Every request works on the latest full text of a document. Nothing is parsed
// ahead of time: handlers scan the lines they need, so a half-typed schema still
// gets completions, hovers and outlines.
package lsp

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/rlch/psl"
	"github.com/rlch/psl/engine"
)

var _ protocol.Server = (*Server)(nil)

// Server implements the LSP Server interface for Prisma schemas.
type Server struct {
	client protocol.Client
	logger *zap.Logger

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	// External schema engine used for diagnostics and formatting.
	engine engine.Engine
	config *psl.Config

	// Server state
	initialized   bool
	shutdown      bool
	workspaceRoot string
}

// Document represents an open document in the server.
type Document struct {
	URI     protocol.DocumentURI
	Version int32
	Content string
}

// Option configures a Server.
type Option func(*Server)

// WithEngine sets the schema engine instead of building one from the config
// found at initialize time.
func WithEngine(e engine.Engine) Option {
	return func(s *Server) {
		s.engine = e
	}
}

// WithConfig sets the server config instead of looking it up from the workspace root.
func WithConfig(cfg *psl.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		client:    client,
		logger:    logger,
		documents: make(map[protocol.DocumentURI]*Document),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootUri", string(params.RootURI)))

	if params.RootURI != "" {
		s.workspaceRoot = URIToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.workspaceRoot = params.RootPath
	}

	if s.workspaceRoot != "" {
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	}

	s.loadConfig()

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save: &protocol.SaveOptions{
					IncludeText: false,
				},
			},
			HoverProvider:             true,
			DefinitionProvider:        true,
			DeclarationProvider:       true,
			TypeDefinitionProvider:    true,
			ReferencesProvider:        true,
			DocumentHighlightProvider: true,
			RenameProvider: &protocol.RenameOptions{
				PrepareProvider: true,
			},
			// Quick fixes for undeclared field types
			CodeActionProvider: &protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{
					protocol.QuickFix,
				},
			},
			// Argument hints for attributes such as @relation(
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters:   []string{"(", ","},
				RetriggerCharacters: []string{","},
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{"@", `"`, ".", "[", " "},
				ResolveProvider:   false,
			},
			// Generator output and SQLite file paths
			DocumentLinkProvider: &protocol.DocumentLinkOptions{
				ResolveProvider: false,
			},
			// Outline and workspace symbol search
			DocumentSymbolProvider:     true,
			WorkspaceSymbolProvider:    true,
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "psl-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// loadConfig resolves the config and engine unless options already set them.
func (s *Server) loadConfig() {
	if s.config == nil && s.workspaceRoot != "" {
		cfg, err := psl.LoadConfig(s.workspaceRoot)

		switch {
		case err == nil:
			s.config = cfg
		case errors.Is(err, psl.ErrConfigNotFound):
			s.logger.Debug("No config file found", zap.String("root", s.workspaceRoot))
		default:
			s.logger.Warn("Failed to load config", zap.Error(err))
		}
	}

	if s.config == nil {
		s.config = &psl.Config{}
	}

	if s.engine == nil {
		s.engine = engine.New(s.config)
		s.logger.Info("Schema engine", zap.String("engine", s.engine.Name()))
	}
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized")
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(ctx, *doc)

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Info("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	if len(params.ContentChanges) == 0 {
		return nil
	}

	s.mu.Lock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))

		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.Version = params.TextDocument.Version
	snapshot := *doc

	s.mu.Unlock()

	s.publishDiagnostics(ctx, snapshot)

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics for closed document
	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	if err != nil {
		s.logger.Error("Failed to clear diagnostics", zap.Error(err))
	}

	return nil
}

// DidSave handles textDocument/didSave notifications.
func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Info("DidSave", zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil
	}

	s.publishDiagnostics(ctx, doc)

	return nil
}

// getDocument returns a snapshot of a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return Document{}, false
	}

	return *doc, true
}

// openDocuments returns snapshots of all open documents.
func (s *Server) openDocuments() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, *doc)
	}

	slices.SortFunc(docs, func(a, b Document) int { return cmp.Compare(a.URI, b.URI) })

	return docs
}

// schemaEngine returns the configured engine, falling back to a no-op before
// initialize has run.
func (s *Server) schemaEngine() engine.Engine { //nolint:ireturn
	if s.engine == nil {
		return engine.Nop{}
	}

	return s.engine
}

// previewFeatureCatalog returns the preview features offered in completions.
func (s *Server) previewFeatureCatalog() []string {
	features := knownPreviewFeatures()
	if s.config != nil {
		features = append(features, s.config.Completion.PreviewFeatures...)
	}

	return features
}
