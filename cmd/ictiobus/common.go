package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// tableFlags holds the construction parameters spec.md §6 names as CLI
// flags surfacing into the core's automaton.Policy, plus the grammar file
// every command that builds a table needs.
type tableFlags struct {
	grammarFile           string
	tablesKind            string
	preferShifts          bool
	preferShiftsOverEmpty bool
}

func addTableFlags(fs *pflag.FlagSet) *tableFlags {
	tf := &tableFlags{}
	fs.StringVarP(&tf.grammarFile, "grammar", "g", "", "Path to a TOML grammar config file (required)")
	fs.StringVar(&tf.tablesKind, "tables", "lalr", "Table construction to use: slr, lalr, or clr1")
	fs.BoolVar(&tf.preferShifts, "prefer-shifts", false, "Resolve shift/reduce conflicts in favor of shift")
	fs.BoolVar(&tf.preferShiftsOverEmpty, "prefer-shifts-over-empty", false, "Resolve shift/reduce conflicts in favor of shift over an empty-producing reduce")
	return tf
}

func (tf *tableFlags) policy() (automaton.Policy, error) {
	var kind automaton.TablesKind
	switch tf.tablesKind {
	case "slr":
		kind = automaton.SLR
	case "lalr", "":
		kind = automaton.LALR
	case "clr1":
		kind = automaton.CLR1
	default:
		return automaton.Policy{}, fmt.Errorf("unknown --tables value %q (want slr, lalr, or clr1)", tf.tablesKind)
	}

	return automaton.Policy{
		PreferShifts:          tf.preferShifts,
		PreferShiftsOverEmpty: tf.preferShiftsOverEmpty,
		TablesKind:            kind,
	}, nil
}

// buildFromFlags loads tf.grammarFile and builds the table and token engine
// it describes, the common first step of compile/viz/parse/trace.
func buildFromFlags(tf *tableFlags) (*automaton.Table, *token.Engine, grammar.Grammar, error) {
	if tf.grammarFile == "" {
		return nil, nil, grammar.Grammar{}, fmt.Errorf("--grammar is required")
	}

	cfg, err := loadGrammarConfig(tf.grammarFile)
	if err != nil {
		return nil, nil, grammar.Grammar{}, err
	}

	g, err := buildGrammar(cfg)
	if err != nil {
		return nil, nil, grammar.Grammar{}, err
	}

	policy, err := tf.policy()
	if err != nil {
		return nil, nil, grammar.Grammar{}, err
	}

	tbl, err := automaton.BuildTable(g, policy)
	if err != nil {
		return nil, nil, grammar.Grammar{}, fmt.Errorf("build table: %w", err)
	}

	engine, err := buildEngine(tbl.Grammar, cfg)
	if err != nil {
		return nil, nil, grammar.Grammar{}, err
	}

	return tbl, engine, g, nil
}
