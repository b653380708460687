package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus/internal/ictiobus/serialize"
)

// runCompile implements spec.md §6's "compile (emit tables from grammar
// file)" command: build a table from a grammar config and print its
// ACTION/GOTO dump (automaton.Table.String, rosed-formatted) plus any
// conflicts, optionally snapshotting it to --out via the serialize package.
func runCompile(args []string) error {
	fs := pflag.NewFlagSet("compile", pflag.ContinueOnError)
	tf := addTableFlags(fs)
	outFile := fs.String("out", "", "Path to write a binary table snapshot to (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tbl, _, _, err := buildFromFlags(tf)
	if err != nil {
		return err
	}

	fmt.Println(tbl.String())

	if len(tbl.Conflicts) > 0 {
		fmt.Printf("\n%d unresolved conflict(s):\n", len(tbl.Conflicts))
		for _, c := range tbl.Conflicts {
			fmt.Printf("  state %s, terminal %s: %d candidate actions\n", c.State, c.Terminal, len(c.Actions))
		}
	}

	if *outFile != "" {
		data, err := serialize.SaveTable(tbl)
		if err != nil {
			return fmt.Errorf("snapshot table: %w", err)
		}
		if err := os.WriteFile(*outFile, data, 0644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Printf("\nwrote table snapshot to %s (%d bytes)\n", *outFile, len(data))
	}

	return nil
}
