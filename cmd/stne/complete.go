package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/stnescript/stne/analysis"
)

// Complete command errors.
var (
	ErrNoFile      = errors.New("expected exactly one script file")
	ErrBadPosition = errors.New("position is outside the script")
)

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Print the completions offered at a position in a script",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			catalogFlag(),
			&cli.IntFlag{
				Name:     "line",
				Aliases:  []string{"l"},
				Usage:    "1-based line of the cursor",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "col",
				Usage: "1-based column of the cursor, in characters (default: end of line)",
			},
		},
		Action: runComplete,
	}
}

func runComplete(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	defer func() {
		_ = logger.Sync()
	}()

	if cmd.Args().Len() != 1 {
		return ErrNoFile
	}

	path := cmd.Args().First()

	data, err := os.ReadFile(path) //nolint:gosec // G304: file path from user input is expected
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	c, err := loadCatalog(cmd, logger)
	if err != nil {
		return err
	}

	text := string(data)

	linePrefix, err := cursorPrefix(text, cmd.Int("line"), cmd.Int("col"))
	if err != nil {
		return err
	}

	engine := analysis.NewEngine(c, logger.Named("analysis"))
	word, suggestions := engine.CompleteAt(linePrefix, text)

	logger.Debug("Completion", zap.String("linePrefix", linePrefix), zap.String("word", word))

	printSuggestions(cmd.Root().Writer, suggestions)

	return nil
}

// cursorPrefix returns the text of line before column col, both 1-based. A
// column of 0 puts the cursor at the end of the line.
func cursorPrefix(text string, line, col int) (string, error) {
	lines := strings.Split(text, "\n")
	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("%w: line %d of %d", ErrBadPosition, line, len(lines))
	}

	runes := []rune(strings.TrimSuffix(lines[line-1], "\r"))

	if col == 0 {
		return string(runes), nil
	}

	if col < 1 || col > len(runes)+1 {
		return "", fmt.Errorf("%w: column %d of line %d", ErrBadPosition, col, line)
	}

	return string(runes[:col-1]), nil
}

func printSuggestions(w io.Writer, suggestions []analysis.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no completions"))
		return
	}

	width := 0
	for _, s := range suggestions {
		width = max(width, len(s.Label))
	}

	for _, s := range suggestions {
		label := s.Label + strings.Repeat(" ", width-len(s.Label))

		if s.Kind == analysis.KindType {
			fmt.Fprintln(w, typeStyle.Render(label))
			continue
		}

		fmt.Fprintf(w, "%s  %s  %s\n",
			memberStyle.Render(label),
			dimStyle.Render(fmt.Sprintf("%-8s", s.Kind)),
			s.Signature)
	}
}
