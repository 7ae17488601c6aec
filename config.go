package stne

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the .stne.yaml (or .stne.toml) configuration file.
type Config struct {
	// Catalog is the type catalog document, relative to the config file.
	Catalog string `yaml:"catalog,omitempty" toml:"catalog,omitempty"`

	// Format holds the beautifier settings.
	Format FormatConfig `yaml:"format,omitempty" toml:"format,omitempty"`

	// Include lists doublestar globs selecting the scripts "stne fmt" walks.
	Include []string `yaml:"include,omitempty" toml:"include,omitempty"`

	// path is the file the config was loaded from, empty for defaults.
	path string
}

// FormatConfig holds formatting settings. Zero values mean "use the default".
type FormatConfig struct {
	IndentSize int    `yaml:"indentSize,omitempty" toml:"indentSize,omitempty"`
	BraceStyle string `yaml:"braceStyle,omitempty" toml:"braceStyle,omitempty"`
}

// DefaultInclude selects STNE scripts when no include globs are configured.
var DefaultInclude = []string{"**/*.stne"}

// BraceStyles are the brace placements the beautifier understands.
var BraceStyles = []string{"collapse", "expand", "end-expand", "none"}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".stne.yaml", ".stne.yml", "stne.yaml", "stne.yml", ".stne.toml", "stne.toml"}

// DefaultConfig returns a config with every setting at its default.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig finds and loads the nearest config walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path. Files ending in .toml
// are decoded as TOML, everything else as YAML.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	cfg.path = abs

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Format.IndentSize < 0 {
		return fmt.Errorf("%w: format.indentSize must not be negative", ErrInvalidConfig)
	}

	if c.Format.BraceStyle != "" && !slices.Contains(BraceStyles, c.Format.BraceStyle) {
		return fmt.Errorf("%w: format.braceStyle %q is not one of %s",
			ErrInvalidConfig, c.Format.BraceStyle, strings.Join(BraceStyles, ", "))
	}

	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory relative paths in the config are resolved
// against, or "" for a default config.
func (c *Config) Dir() string {
	if c.path == "" {
		return ""
	}

	return filepath.Dir(c.path)
}

// CatalogPath returns the catalog document path resolved against the config
// directory, or "" when none is configured.
func (c *Config) CatalogPath() string {
	if c.Catalog == "" {
		return ""
	}

	if filepath.IsAbs(c.Catalog) || c.path == "" {
		return c.Catalog
	}

	return filepath.Join(c.Dir(), c.Catalog)
}

// IncludePatterns returns the configured include globs or DefaultInclude.
func (c *Config) IncludePatterns() []string {
	if len(c.Include) == 0 {
		return DefaultInclude
	}

	return c.Include
}

// FormatOptions returns the configured formatting settings with defaults
// filled in.
func (c *Config) FormatOptions() FormatOptions {
	return DefaultFormatOptions().Merge(c.Format.IndentSize, c.Format.BraceStyle)
}
