package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/boyter/gocodewalker"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stnescript/stne"
)

// Fmt command errors.
var (
	ErrNoScripts       = errors.New("no STNE scripts found")
	ErrUnformatted     = errors.New("scripts are not formatted")
	ErrBadBraceStyle   = errors.New("unknown brace style")
	ErrStdinIsTerminal = errors.New("no input: pass files or pipe a script to stdin")
)

// beautifier is the Beautifier used by fmt. Nil means stne.JSBeautifier.
var beautifier stne.Beautifier

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Usage:     "Format STNE scripts in place",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "list unformatted scripts and exit 1 instead of writing",
			},
			&cli.BoolFlag{
				Name:  "stdout",
				Usage: "print formatted scripts instead of writing them",
			},
			&cli.IntFlag{
				Name:  "indent-size",
				Usage: "indent width (overrides config)",
			},
			&cli.StringFlag{
				Name:  "brace-style",
				Usage: "brace placement: " + strings.Join(stne.BraceStyles, ", "),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "scripts formatted concurrently",
				Value:   runtime.GOMAXPROCS(0),
			},
		},
		Action: runFmt,
	}
}

// fmtResult is one formatted script.
type fmtResult struct {
	path      string
	original  string
	formatted string
}

func (r fmtResult) changed() bool {
	return r.original != r.formatted
}

func runFmt(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	defer func() {
		_ = logger.Sync()
	}()

	root := cmd.Root()
	args := cmd.Args().Slice()

	if len(args) == 0 {
		if f, ok := root.Reader.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return ErrStdinIsTerminal
		}

		return fmtStdin(cmd, root.Reader, root.Writer)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := loadProjectConfig(cmd, cwd)
	if err != nil {
		return err
	}

	opts, err := fmtOptions(cmd, cfg)
	if err != nil {
		return err
	}

	files, err := collectScripts(args, cfg.IncludePatterns())
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoScripts
	}

	logger.Debug("Formatting scripts", zap.Int("files", len(files)), zap.Int("indentSize", opts.IndentSize))

	write := !cmd.Bool("check") && !cmd.Bool("stdout")
	results := make([]fmtResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.Int("jobs"), 1))

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := formatFile(path, opts)
			if err != nil {
				return err
			}

			if write && res.changed() {
				if err := writeFileKeepMode(path, res.formatted); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return reportFmt(cmd, root.Writer, results)
}

func reportFmt(cmd *cli.Command, w io.Writer, results []fmtResult) error {
	switch {
	case cmd.Bool("check"):
		unformatted := 0

		for _, res := range results {
			if res.changed() {
				unformatted++
				fmt.Fprintln(w, res.path)
			}
		}

		if unformatted > 0 {
			return fmt.Errorf("%w: %d of %d", ErrUnformatted, unformatted, len(results))
		}

	case cmd.Bool("stdout"):
		for _, res := range results {
			if len(results) > 1 {
				fmt.Fprintln(w, dimStyle.Render("// "+res.path))
			}

			fmt.Fprintln(w, res.formatted)
		}

	default:
		for _, res := range results {
			if res.changed() {
				fmt.Fprintln(w, successStyle.Render("formatted ")+res.path)
			}
		}
	}

	return nil
}

func fmtStdin(cmd *cli.Command, r io.Reader, w io.Writer) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}

	cfg, err := loadProjectConfig(cmd, cwd)
	if err != nil {
		return err
	}

	opts, err := fmtOptions(cmd, cfg)
	if err != nil {
		return err
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	out, err := stne.Format(string(src), opts, beautifier)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)

	return err
}

// fmtOptions overlays the command line flags on the config settings.
func fmtOptions(cmd *cli.Command, cfg *stne.Config) (stne.FormatOptions, error) {
	style := cmd.String("brace-style")
	if style != "" && !slices.Contains(stne.BraceStyles, style) {
		return stne.FormatOptions{}, fmt.Errorf("%w: %q", ErrBadBraceStyle, style)
	}

	return cfg.FormatOptions().Merge(cmd.Int("indent-size"), style), nil
}

func formatFile(path string, opts stne.FormatOptions) (fmtResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmtResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := stne.Format(string(data), opts, beautifier)
	if err != nil {
		return fmtResult{}, fmt.Errorf("formatting %s: %w", path, err)
	}

	return fmtResult{path: path, original: string(data), formatted: out}, nil
}

func writeFileKeepMode(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(content), info.Mode().Perm())
}

// collectScripts expands args into a sorted list of script paths. Files named
// directly are always taken; directories are walked respecting .gitignore and
// keep the files whose path relative to the directory matches an include glob.
func collectScripts(args, include []string) ([]string, error) {
	seen := make(map[string]bool)

	var (
		mu    sync.Mutex
		files []string
	)

	add := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("accessing %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}

		err = walkDir(arg, func(path string) {
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return
			}

			if matchesAny(include, filepath.ToSlash(rel)) {
				add(path)
			}
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)

	return files, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}

	return false
}

// walkDir walks a directory, respecting .gitignore.
func walkDir(root string, callback func(path string)) error {
	fileListQueue := make(chan *gocodewalker.File, 100)

	fileWalker := gocodewalker.NewFileWalker(root, fileListQueue)

	var walkErr error
	fileWalker.SetErrorHandler(func(e error) bool {
		walkErr = e
		return true
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for f := range fileListQueue {
			callback(f.Location)
		}
	}()

	if err := fileWalker.Start(); err != nil {
		return err
	}

	wg.Wait()
	return walkErr
}
