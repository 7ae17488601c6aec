package lsp

import (
	"context"
	"path/filepath"
	"slices"
	"strconv"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/stnescript/stne"
)

// SettingsSection is the client configuration section holding the
// formatter settings.
const SettingsSection = "scriptSupportSTNE"

// DidChangeConfiguration handles workspace/didChangeConfiguration. Clients
// send either the whole settings tree or just the scriptSupportSTNE section.
func (s *Server) DidChangeConfiguration(_ context.Context, params *protocol.DidChangeConfigurationParams) error {
	settings, ok := params.Settings.(map[string]any)
	if !ok {
		s.logger.Debug("Ignoring configuration without settings object")
		return nil
	}

	if section, ok := settings[SettingsSection].(map[string]any); ok {
		settings = section
	}

	opts := stne.FormatOptions{
		IndentSize: intSetting(settings["indentSize"]),
	}

	if style, ok := settings["braceStyle"].(string); ok && slices.Contains(stne.BraceStyles, style) {
		opts.BraceStyle = style
	} else if ok {
		s.logger.Warn("Ignoring unknown brace style", zap.String("braceStyle", style))
	}

	s.settingsMu.Lock()
	s.clientFmt = opts
	s.settingsMu.Unlock()

	s.logger.Info("Client format settings updated",
		zap.Int("indentSize", opts.IndentSize),
		zap.String("braceStyle", opts.BraceStyle))

	return nil
}

// intSetting reads a positive integer setting that may arrive as a JSON
// number or as a numeric string. Anything else reads as 0, meaning unset.
func intSetting(v any) int {
	switch n := v.(type) {
	case float64:
		if n > 0 {
			return int(n)
		}
	case int:
		if n > 0 {
			return n
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil && i > 0 {
			return i
		}
	}

	return 0
}

// DidChangeWatchedFiles handles workspace/didChangeWatchedFiles. A changed
// catalog is reloaded and a changed project config is applied.
func (s *Server) DidChangeWatchedFiles(_ context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		if change == nil {
			continue
		}

		path := URIToPath(change.URI)

		s.settingsMu.Lock()

		switch {
		case slices.Contains(stne.DefaultConfigNames, filepath.Base(path)):
			s.config = s.loadConfig()
			s.switchCatalog(s.resolveCatalogPath(s.config))

		case samePath(path, s.catalogPath) && change.Type != protocol.FileChangeTypeDeleted:
			changed, err := s.catalog.Reload(s.catalogPath)
			if err != nil {
				s.logger.Error("Catalog reload failed, keeping previous catalog", zap.Error(err))
			} else {
				s.logger.Info("Catalog change notified by client", zap.Bool("reloaded", changed))
			}
		}

		s.settingsMu.Unlock()
	}

	return nil
}
