package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// runViz implements spec.md §6's "viz (dot of the automaton)" command,
// calling straight through to automaton.Table.DOT -- the core-side hook
// this collaborator command exists to drive (SPEC_FULL.md §2's "only the
// interfaces the core consumes from/exposes to out-of-scope collaborators
// are specified" note).
func runViz(args []string) error {
	fs := pflag.NewFlagSet("viz", pflag.ContinueOnError)
	tf := addTableFlags(fs)
	outFile := fs.StringP("out", "o", "", "Write the dot graph to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tbl, _, _, err := buildFromFlags(tf)
	if err != nil {
		return err
	}

	dot := tbl.DOT()
	if *outFile == "" {
		fmt.Println(dot)
		return nil
	}
	return os.WriteFile(*outFile, []byte(dot), 0644)
}
