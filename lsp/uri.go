package lsp

import (
	"net/url"
	"path/filepath"
	"strings"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// URIToPath converts a file:// URI to a file system path. Anything that is
// not a file URI is returned unchanged.
func URIToPath(u protocol.DocumentURI) string {
	parsed, err := url.ParseRequestURI(string(u))
	if err != nil || parsed.Scheme != uri.FileScheme {
		return string(u)
	}

	return u.Filename()
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) protocol.DocumentURI {
	return uri.File(path)
}

// samePath reports whether two paths name the same file after cleaning.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	return filepath.Clean(a) == filepath.Clean(b)
}

// lineAt returns line n of content without its line terminator.
func lineAt(content string, n int) (string, bool) {
	for i := 0; i < n; i++ {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			return "", false
		}

		content = content[idx+1:]
	}

	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}

	return strings.TrimSuffix(content, "\r"), true
}
