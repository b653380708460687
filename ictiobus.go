// Package ictiobus is a scannerless LR(1)/GLR parser-generator core: give it
// a grammar.Grammar and a table-construction policy, get back an
// automaton.Table ready to drive either the deterministic lr.Parser or the
// generalized glr.Parser.
//
// This file is the facade constructor family the rest of the package
// internals are reached through, grounded on the teacher's own
// internal/ictiobus/ictiobus.go (the NewLALR1Parser/NewSLRParser/
// NewCLRParser trio this repo's own module happens to share a name with).
package ictiobus

import (
	"fmt"
	"reflect"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/glr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// NewLALR1Table builds a table using the modified-LALR(1) construction
// spec §4.2 mandates (merged LR(1) states with conflicts statically
// resolved), the default table-kind.
func NewLALR1Table(g grammar.Grammar, preferShifts, preferShiftsOverEmpty bool) (*automaton.Table, error) {
	return automaton.BuildTable(g, automaton.Policy{
		PreferShifts:          preferShifts,
		PreferShiftsOverEmpty: preferShiftsOverEmpty,
		TablesKind:            automaton.LALR,
	})
}

// NewSLRTable builds a table using the simple-LR construction (LR(0)
// automaton plus FOLLOW-set lookaheads), the supplementary table-kind
// spec.md §9 leaves room for alongside the mandated LALR construction.
func NewSLRTable(g grammar.Grammar, preferShifts, preferShiftsOverEmpty bool) (*automaton.Table, error) {
	return automaton.BuildTable(g, automaton.Policy{
		PreferShifts:          preferShifts,
		PreferShiftsOverEmpty: preferShiftsOverEmpty,
		TablesKind:            automaton.SLR,
	})
}

// NewCLRTable builds a table using the canonical LR(1) construction (no
// state merging), the strongest and most state-heavy of the three
// table-kinds.
func NewCLRTable(g grammar.Grammar, preferShifts, preferShiftsOverEmpty bool) (*automaton.Table, error) {
	return automaton.BuildTable(g, automaton.Policy{
		PreferShifts:          preferShifts,
		PreferShiftsOverEmpty: preferShiftsOverEmpty,
		TablesKind:            automaton.CLR1,
	})
}

// NewParser returns a deterministic lr.Parser over tbl. It does not check
// tbl for conflicts: any conflict still in tbl.Conflicts surfaces as a
// GrammarError from Parse the first time an affected cell is consulted.
func NewParser(tbl *automaton.Table, engine *token.Engine, opts ...lr.Option) *lr.Parser {
	return lr.NewParser(tbl, engine, opts...)
}

// NewGLRParser returns a generalized LR parser over tbl, which forks
// instead of failing on any ACTION cell with more than one candidate.
func NewGLRParser(tbl *automaton.Table, engine *token.Engine, opts ...glr.Option) *glr.Parser {
	return glr.NewParser(tbl, engine, opts...)
}

// Frontend is a complete input-to-intermediate-representation pipeline:
// recognize against tbl/engine with the in-line action driver and return the
// typed result the grammar's top-level production built. Grounded on the
// teacher's internal/ictiobus/ictiobus.go Frontend[E], carried over nearly
// unchanged since the generic-result idea owes nothing to that file's
// now-superseded Lexer/Parser/SDD trio -- only lr.Parser's in-line action
// mode (the Value field of lr.Result) is needed to produce E.
type Frontend[E any] struct {
	Table  *automaton.Table
	Engine *token.Engine
	Opts   []lr.Option
}

// Analyze parses src and returns the value the grammar's start production
// reduced to, type-asserted to E.
func (fe Frontend[E]) Analyze(src string) (ir E, err error) {
	p := lr.NewParser(fe.Table, fe.Engine, fe.Opts...)
	res, err := p.Parse(src)
	if err != nil {
		return ir, err
	}

	irUncast := res.Value
	ir, ok := irUncast.(E)
	if !ok {
		irType := reflect.TypeOf(ir)
		actualType := reflect.TypeOf(irUncast)
		return ir, fmt.Errorf("expected final result to be of type %s but got %s", irType, actualType)
	}
	return ir, nil
}
