package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus/internal/ictiobus/glr"
)

// runTrace implements spec.md §6's "trace (dot of a GSS run)" command: parse
// with the glr driver under WithGraphTrace and emit the recorded run as a
// dot graph (glr.Trace.DOT), plus the resulting forest's own ambiguity
// summary so a grammar author can see both the fork structure and what it
// produced in one pass.
func runTrace(args []string) error {
	fs := pflag.NewFlagSet("trace", pflag.ContinueOnError)
	tf := addTableFlags(fs)
	inputText := fs.StringP("input", "i", "", "Input text to parse (reads stdin if omitted)")
	outFile := fs.StringP("out", "o", "", "Write the GSS dot graph to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tbl, engine, _, err := buildFromFlags(tf)
	if err != nil {
		return err
	}

	text := *inputText
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	p := glr.NewParser(tbl, engine, glr.WithGraphTrace())
	res, err := p.Parse(text)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "run %s: %d root(s), %d ambiguit(ies), %d solution(s)\n",
		res.RunID, len(res.Forest.Roots), res.Forest.Ambiguities(), res.Forest.Solutions())

	dot := res.Trace.DOT()
	if *outFile == "" {
		fmt.Println(dot)
		return nil
	}
	return os.WriteFile(*outFile, []byte(dot), 0644)
}
