// Command stne-lsp is a Language Server Protocol server for STNE script.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stnescript/stne/lsp"
)

func main() {
	cmd := &cli.Command{
		Name:  "stne-lsp",
		Usage: "STNE script language server over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "catalog document (overrides .stne.yaml)",
				Sources: cli.EnvVars("STNE_CATALOG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "do not watch the catalog for changes",
			},
		},
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol, so logs go to stderr.
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cmd.Bool("debug") {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	base, err := config.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	defer func() {
		_ = base.Sync()
	}()

	base.Info("Starting stne-lsp server", zap.String("catalog", cmd.String("catalog")))

	return run(ctx, base, config.Level, os.Stdin, os.Stdout, lsp.Options{
		CatalogPath: cmd.String("catalog"),
		NoWatch:     cmd.Bool("no-watch"),
	})
}

func run(ctx context.Context, base *zap.Logger, level zapcore.LevelEnabler, in io.Reader, out io.Writer, opts lsp.Options) error {
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	client := protocol.ClientDispatcher(conn, base)

	logger, stopLogs := lsp.NewLSPLogger(client, base.Core(), level)
	defer stopLogs()

	server := lsp.NewServer(client, logger, opts)

	conn.Go(ctx, protocol.ServerHandler(server, nil))

	<-conn.Done()

	return conn.Err()
}

// readWriteCloser joins stdin and stdout into one stream.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
