package stne_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stnescript/stne"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".stne.yaml"), `
catalog: resources/objectexplorer.json
format:
  indentSize: 4
  braceStyle: collapse
include:
  - "scripts/**/*.stne"
`)

	nested := filepath.Join(root, "scripts", "fleet")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := stne.LoadConfig(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".stne.yaml"), cfg.Path())
	assert.Equal(t, root, cfg.Dir())
	assert.Equal(t, filepath.Join(root, "resources", "objectexplorer.json"), cfg.CatalogPath())
	assert.Equal(t, stne.FormatOptions{IndentSize: 4, BraceStyle: "collapse"}, cfg.FormatOptions())
	assert.Equal(t, []string{"scripts/**/*.stne"}, cfg.IncludePatterns())
}

func TestLoadConfig_TOML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stne.toml"), `
catalog = "types.yaml"

[format]
indentSize = 3
`)

	cfg, err := stne.LoadConfig(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "types.yaml"), cfg.CatalogPath())
	assert.Equal(t, stne.FormatOptions{IndentSize: 3, BraceStyle: "expand"}, cfg.FormatOptions())
	assert.Equal(t, stne.DefaultInclude, cfg.IncludePatterns())
}

func TestLoadConfig_PrefersYAMLOverTOML(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".stne.toml"), `catalog = "from-toml.json"`)
	writeFile(t, filepath.Join(root, ".stne.yaml"), `catalog: from-yaml.json`)

	cfg, err := stne.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml.json", filepath.Base(cfg.CatalogPath()))
}

func TestLoadConfig_NotFound(t *testing.T) {
	t.Parallel()

	_, err := stne.FindConfig(t.TempDir())
	if err != nil {
		require.ErrorIs(t, err, stne.ErrConfigNotFound)
		return
	}

	// A config above the temp dir belongs to the machine, not the test.
	t.Skip("a config file exists above the temporary directory")
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad yaml", file: ".stne.yaml", content: "format: [1, 2"},
		{name: "bad toml", file: ".stne.toml", content: "format = ["},
		{name: "negative indent", file: ".stne.yaml", content: "format:\n  indentSize: -1\n"},
		{name: "unknown brace style", file: ".stne.yaml", content: "format:\n  braceStyle: sideways\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)

			_, err := stne.LoadConfigFile(path)
			require.ErrorIs(t, err, stne.ErrInvalidConfig)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := stne.DefaultConfig()
	assert.Empty(t, cfg.CatalogPath())
	assert.Empty(t, cfg.Dir())
	assert.Equal(t, stne.DefaultFormatOptions(), cfg.FormatOptions())
	assert.Equal(t, []string{"**/*.stne"}, cfg.IncludePatterns())
}

func TestConfig_AbsoluteCatalog(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	abs := filepath.Join(root, "elsewhere", "catalog.json")
	writeFile(t, filepath.Join(root, ".stne.yml"), "catalog: "+abs+"\n")

	cfg, err := stne.LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.CatalogPath())
}
