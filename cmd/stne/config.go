package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/stnescript/stne"
	"github.com/stnescript/stne/catalog"
)

// ErrNoCatalog is returned by commands that need a catalog when none is
// configured.
var ErrNoCatalog = errors.New("no catalog configured (use --catalog or catalog in .stne.yaml)")

// loadProjectConfig loads the --config file, or the nearest config walking up
// from startDir. A missing config yields the defaults.
func loadProjectConfig(cmd *cli.Command, startDir string) (*stne.Config, error) {
	if path := cmd.String("config"); path != "" {
		return stne.LoadConfigFile(path)
	}

	cfg, err := stne.LoadConfig(startDir)
	if errors.Is(err, stne.ErrConfigNotFound) {
		return stne.DefaultConfig(), nil
	}

	return cfg, err
}

// loadCatalog loads the catalog named by --catalog, falling back to the
// project config found from the working directory.
func loadCatalog(cmd *cli.Command, logger *zap.Logger) (*catalog.Catalog, error) {
	path := cmd.String("catalog")

	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting cwd: %w", err)
		}

		cfg, err := loadProjectConfig(cmd, cwd)
		if err != nil {
			return nil, err
		}

		path = cfg.CatalogPath()
	}

	if path == "" {
		return nil, ErrNoCatalog
	}

	c := catalog.New(logger)
	if err := c.LoadFile(path); err != nil {
		return nil, err
	}

	return c, nil
}

// catalogFlag is shared by the commands that read the catalog.
func catalogFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "catalog document (overrides .stne.yaml)",
		Sources: cli.EnvVars("STNE_CATALOG"),
	}
}
