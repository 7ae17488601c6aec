package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/stnescript/stne/analysis"
	"github.com/stnescript/stne/catalog"
)

// ErrUnknownType is returned when types is asked for a type the catalog
// does not have.
var ErrUnknownType = errors.New("unknown type")

func typesCommand() *cli.Command {
	return &cli.Command{
		Name:      "types",
		Usage:     "List catalog types, or the members of one type",
		ArgsUsage: "[type]",
		Flags: []cli.Flag{
			catalogFlag(),
		},
		Action: runTypes,
	}
}

func runTypes(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)
	defer func() {
		_ = logger.Sync()
	}()

	c, err := loadCatalog(cmd, logger)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	snap := c.Snapshot()

	if cmd.Args().Len() == 0 {
		listTypes(w, snap)
		return nil
	}

	name := catalog.NormalizeType(cmd.Args().First())

	t, ok := snap.Lookup(name)
	if !ok {
		if closest, _, found := snap.Closest(name); found {
			return fmt.Errorf("%w %q, did you mean %q?", ErrUnknownType, name, closest)
		}

		return fmt.Errorf("%w %q", ErrUnknownType, name)
	}

	fmt.Fprintln(w, typeStyle.Render(t.Name))
	printSuggestions(w, analysis.BuildSuggestions(t))

	return nil
}

func listTypes(w io.Writer, snap *catalog.Snapshot) {
	for _, t := range snap.Types() {
		fmt.Fprintf(w, "%s %s\n", typeStyle.Render(t.Name), dimStyle.Render(fmt.Sprintf("(%d members)", len(t.Members))))
	}

	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d types, fingerprint %016x", snap.Len(), snap.Fingerprint)))
}
