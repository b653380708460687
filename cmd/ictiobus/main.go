/*
Ictiobus compiles a grammar into LR/GLR parse tables and exercises them.

Usage:

	ictiobus <command> [flags]

The commands are:

	compile    emit ACTION/GOTO tables from a grammar config file
	viz        emit a dot graph of the compiled automaton
	parse      parse input against a compiled (or just-built) table
	trace      like parse, but with the glr driver and a GSS dot trace
	serve      start an HTTP front end exposing compile/parse over REST

Run "ictiobus <command> -h" for the flags each command accepts.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/ictiobus/internal/version"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitCommandError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitUsageError
	}

	cmd, rest := args[0], args[1:]

	if cmd == "-v" || cmd == "--version" {
		fmt.Printf("ictiobus %s\n", version.Current)
		return ExitSuccess
	}

	var err error
	switch cmd {
	case "compile":
		err = runCompile(rest)
	case "viz":
		err = runViz(rest)
	case "parse":
		err = runParse(rest)
	case "trace":
		err = runTrace(rest)
	case "serve":
		err = runServe(rest)
	case "-h", "--help", "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "ERROR: unknown command %q\n", cmd)
		printUsage()
		return ExitUsageError
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitCommandError
	}
	return ExitSuccess
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: ictiobus <compile|viz|parse|trace|serve> [flags]")
	fmt.Fprintln(os.Stderr, "Do '<command> -h' for command-specific flags.")
}
