// Package lsp implements a Language Server Protocol server for STNE script.
package lsp

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/stnescript/stne"
	"github.com/stnescript/stne/analysis"
	"github.com/stnescript/stne/catalog"
)

// Options configures a Server.
type Options struct {
	// CatalogPath overrides the catalog configured in the project config.
	CatalogPath string

	// ConfigDir is where the config search starts. Defaults to the workspace
	// root sent by the client.
	ConfigDir string

	// Beautifier formats documents. Defaults to stne.JSBeautifier.
	Beautifier stne.Beautifier

	// NoWatch disables the catalog file watcher.
	NoWatch bool
}

// Server implements the LSP Server interface for STNE script.
type Server struct {
	client protocol.Client
	logger *zap.Logger
	opts   Options

	// Document state
	mu        sync.RWMutex
	documents map[protocol.DocumentURI]*Document

	catalog *catalog.Catalog
	engine  *analysis.Engine

	// Settings state, guarded by settingsMu.
	settingsMu  sync.RWMutex
	config      *stne.Config
	clientFmt   stne.FormatOptions
	catalogPath string
	watcher     *catalog.Watcher

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

// NewServer creates a new LSP server.
func NewServer(client protocol.Client, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.Beautifier == nil {
		opts.Beautifier = stne.JSBeautifier{}
	}

	cat := catalog.New(logger.Named("catalog"))

	return &Server{
		client:    client,
		logger:    logger,
		opts:      opts,
		documents: make(map[protocol.DocumentURI]*Document),
		catalog:   cat,
		engine:    analysis.NewEngine(cat, logger.Named("completion")),
		config:    stne.DefaultConfig(),
	}
}

// Catalog returns the type catalog the server completes against.
func (s *Server) Catalog() *catalog.Catalog {
	return s.catalog
}

// Initialize handles the initialize request.
func (s *Server) Initialize(_ context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s.logger.Info("Initialize", zap.String("rootUri", string(params.RootURI)))

	// Extract workspace root from params
	switch {
	case params.RootURI != "":
		s.workspaceRoot = URIToPath(params.RootURI)
	case params.RootPath != "":
		s.workspaceRoot = params.RootPath
	case len(params.WorkspaceFolders) > 0:
		s.workspaceRoot = URIToPath(protocol.DocumentURI(params.WorkspaceFolders[0].URI))
	}

	if s.workspaceRoot != "" {
		s.logger.Info("Workspace root", zap.String("root", s.workspaceRoot))
	}

	s.settingsMu.Lock()
	s.config = s.loadConfig()
	s.switchCatalog(s.resolveCatalogPath(s.config))
	s.settingsMu.Unlock()

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// Full document sync - client sends entire content on change
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
				Save:      &protocol.SaveOptions{IncludeText: false},
			},
			// Member completion after "." and type names after "New "/"As "
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: []string{".", " "},
				ResolveProvider:   false,
			},
			DocumentFormattingProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "stne-lsp",
			Version: "0.1.0",
		},
	}, nil
}

// Initialized handles the initialized notification.
func (s *Server) Initialized(_ context.Context, _ *protocol.InitializedParams) error {
	s.logger.Info("Initialized", zap.Int("types", s.catalog.Snapshot().Len()))
	s.initialized = true

	return nil
}

// Shutdown handles the shutdown request.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info("Shutdown")
	s.shutdown = true

	s.settingsMu.Lock()
	s.stopWatcher()
	s.settingsMu.Unlock()

	return nil
}

// Exit handles the exit notification.
func (s *Server) Exit(_ context.Context) error {
	s.logger.Info("Exit")
	// The main loop should handle exiting after this
	return nil
}

// Request handles non-standard requests.
func (s *Server) Request(_ context.Context, method string, _ any) (any, error) {
	s.logger.Debug("Unhandled request", zap.String("method", method))

	return nil, jsonrpc2.ErrMethodNotFound
}

// DidOpen handles textDocument/didOpen notifications.
func (s *Server) DidOpen(_ context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.logger.Info("DidOpen", zap.String("uri", string(params.TextDocument.URI)))

	doc := &Document{
		URI:     params.TextDocument.URI,
		Version: params.TextDocument.Version,
		Content: params.TextDocument.Text,
	}

	s.mu.Lock()
	s.documents[params.TextDocument.URI] = doc
	s.mu.Unlock()

	return nil
}

// DidChange handles textDocument/didChange notifications.
func (s *Server) DidChange(_ context.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.logger.Debug("DidChange",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Int32("version", params.TextDocument.Version))

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[params.TextDocument.URI]
	if !ok {
		s.logger.Warn("DidChange for unknown document", zap.String("uri", string(params.TextDocument.URI)))
		return nil
	}

	// Full sync - take the last content change (should only be one with full sync)
	if len(params.ContentChanges) > 0 {
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
	}

	return nil
}

// DidClose handles textDocument/didClose notifications.
func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.logger.Info("DidClose", zap.String("uri", string(params.TextDocument.URI)))

	// Hold lock only for document map update
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear diagnostics outside the lock to prevent deadlock
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
func (s *Server) DidSave(_ context.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.logger.Debug("DidSave", zap.String("uri", string(params.TextDocument.URI)))
	return nil
}

// getDocument returns a document by URI (read-locked).
func (s *Server) getDocument(uri protocol.DocumentURI) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return nil, false
	}

	// Copy so callers never race with DidChange.
	snapshot := *doc

	return &snapshot, true
}

// loadConfig finds the project config. A missing or broken config falls back
// to the defaults.
func (s *Server) loadConfig() *stne.Config {
	dir := s.opts.ConfigDir
	if dir == "" {
		dir = s.workspaceRoot
	}

	if dir == "" {
		return stne.DefaultConfig()
	}

	cfg, err := stne.LoadConfig(dir)
	switch {
	case errors.Is(err, stne.ErrConfigNotFound):
		s.logger.Debug("No project config, using defaults", zap.String("dir", dir))
		return stne.DefaultConfig()
	case err != nil:
		s.logger.Warn("Failed to load project config, using defaults", zap.Error(err))
		return stne.DefaultConfig()
	}

	s.logger.Info("Loaded project config", zap.String("path", cfg.Path()))

	return cfg
}

// resolveCatalogPath returns the absolute catalog path, so it compares equal
// to the paths in client file events.
func (s *Server) resolveCatalogPath(cfg *stne.Config) string {
	path := s.opts.CatalogPath
	if path == "" {
		path = cfg.CatalogPath()
	}

	if path == "" {
		return ""
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		s.logger.Warn("Cannot make catalog path absolute", zap.String("path", path), zap.Error(err))
		return path
	}

	return abs
}

// switchCatalog loads the catalog at path and watches it. It must be called
// with settingsMu held. A failed load leaves the server running with whatever
// catalog it had.
func (s *Server) switchCatalog(path string) {
	if path == s.catalogPath && s.watcher != nil {
		return
	}

	s.stopWatcher()
	s.catalogPath = path

	if path == "" {
		s.logger.Warn("No catalog configured, member completion is disabled")
		return
	}

	if err := s.catalog.LoadFile(path); err != nil {
		s.logger.Error("Failed to load catalog", zap.String("path", path), zap.Error(err))
	}

	if s.opts.NoWatch {
		return
	}

	w, err := catalog.NewWatcher(s.catalog, path, s.logger.Named("catalog"))
	if err != nil {
		s.logger.Warn("Catalog hot reload disabled", zap.Error(err))
		return
	}

	w.OnReload = s.onCatalogReload
	w.Start()
	s.watcher = w
}

// stopWatcher must be called with settingsMu held.
func (s *Server) stopWatcher() {
	if s.watcher == nil {
		return
	}

	if err := s.watcher.Close(); err != nil {
		s.logger.Debug("Closing catalog watcher", zap.Error(err))
	}

	s.watcher = nil
}

func (s *Server) onCatalogReload(_ bool, err error) {
	if err == nil {
		return
	}

	showErr := s.client.ShowMessage(context.Background(), &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeWarning,
		Message: "STNE catalog reload failed, keeping the previous catalog: " + err.Error(),
	})
	if showErr != nil {
		s.logger.Debug("Failed to show message", zap.Error(showErr))
	}
}

// formatOptions returns the config settings overlaid with the client's.
func (s *Server) formatOptions() stne.FormatOptions {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()

	return s.config.FormatOptions().Merge(s.clientFmt.IndentSize, s.clientFmt.BraceStyle)
}
