package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus/internal/input"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
	"github.com/dekarrin/ictiobus/internal/ictiobus/trace"
)

// runParse implements spec.md §6's "parse (parse input, print tree/forest)"
// command using the deterministic lr driver. Flags map directly onto the
// construction parameters spec.md §6 lists: build_tree, debug, ws (the
// engine's whitespace set, read from the grammar config instead of a flag
// since it's grammar-specific), consume_input is implicit (lr.Parser always
// consumes to Stop or fails).
func runParse(args []string) error {
	fs := pflag.NewFlagSet("parse", pflag.ContinueOnError)
	tf := addTableFlags(fs)
	buildTree := fs.Bool("build-tree", true, "Build and print the parse tree")
	debug := fs.Bool("debug", false, "Print trace output for every shift/reduce")
	repl := fs.Bool("repl", false, "Start an interactive readline loop instead of reading one input")
	inputText := fs.StringP("input", "i", "", "Input text to parse (reads stdin if omitted and --repl is not given)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tbl, engine, _, err := buildFromFlags(tf)
	if err != nil {
		return err
	}

	var opts []lr.Option
	if *buildTree {
		opts = append(opts, lr.WithBuildTree())
	}
	opts = append(opts, lr.WithActions(runtime.NewRegistry()))
	if *debug {
		opts = append(opts, lr.WithTracer(trace.TracerFunc(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		})))
	}

	p := lr.NewParser(tbl, engine, opts...)

	if *repl {
		return parseREPL(p)
	}

	text := *inputText
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	return parseOnce(p, text)
}

func parseOnce(p *lr.Parser, text string) error {
	res, err := p.Parse(text)
	if err != nil {
		return err
	}
	if res.Tree != nil {
		fmt.Println(res.Tree.String())
	}
	if res.Value != nil {
		fmt.Printf("value: %v\n", res.Value)
	}
	return nil
}

// parseREPL re-parses one line of input at a time against the already-built
// table (spec.md §6's chzyer/readline-backed "parse --repl", grounded on the
// teacher's input.InteractiveCommandReader).
func parseREPL(p *lr.Parser) error {
	reader, err := input.NewInteractiveReader()
	if err != nil {
		return fmt.Errorf("start readline: %w", err)
	}
	defer reader.Close()
	reader.AllowBlank(false)

	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := parseOnce(p, line); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
	}
}
