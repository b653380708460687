package automaton

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exprGrammar is the classic unambiguous arithmetic-expression grammar:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
func exprGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("+"))
	g.AddTerm(grammar.NewTerminal("*"))
	g.AddTerm(grammar.NewTerminal("("))
	g.AddTerm(grammar.NewTerminal(")"))
	g.AddTerm(grammar.NewTerminal("id"))
	g.AddRule("E", grammar.NewProduction("E", "+", "T"))
	g.AddRule("E", grammar.NewProduction("T"))
	g.AddRule("T", grammar.NewProduction("T", "*", "F"))
	g.AddRule("T", grammar.NewProduction("F"))
	g.AddRule("F", grammar.NewProduction("(", "E", ")"))
	g.AddRule("F", grammar.NewProduction("id"))
	g.SetStartSymbol("E")
	return *g
}

func Test_BuildTable_LALR_noConflicts(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tbl, err := BuildTable(exprGrammar(), Policy{TablesKind: LALR})
	require.NoError(err)
	require.NotNil(tbl)

	assert.Empty(tbl.Conflicts, "unambiguous grammar must build without conflicts")
	assert.NotEmpty(tbl.Start)

	// the start state must be able to shift on both '(' and 'id', the only
	// two terminals that can begin an expression
	assert.NotEmpty(tbl.ACTION(tbl.Start, "("))
	assert.NotEmpty(tbl.ACTION(tbl.Start, "id"))

	foundShift := false
	for _, a := range tbl.ACTION(tbl.Start, "id") {
		if a.Type == Shift {
			foundShift = true
		}
	}
	assert.True(foundShift, "state 0 must shift on id")
}

func Test_BuildTable_LALR_acceptReachable(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tbl, err := BuildTable(exprGrammar(), Policy{TablesKind: LALR})
	require.NoError(err)

	// confirm some state in the table has an Accept action on the augmented
	// grammar's end marker.
	foundAccept := false
	for _, s := range tbl.States() {
		for _, a := range tbl.ACTION(s, grammar.Stop) {
			if a.Type == Accept {
				foundAccept = true
			}
		}
	}
	assert.True(foundAccept, "some state must accept on $")
}

func Test_BuildTable_CLR1_noConflicts(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tbl, err := BuildTable(exprGrammar(), Policy{TablesKind: CLR1})
	require.NoError(err)
	assert.Empty(tbl.Conflicts)
}

func Test_BuildTable_SLR_noConflicts(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	tbl, err := BuildTable(exprGrammar(), Policy{TablesKind: SLR})
	require.NoError(err)
	assert.Empty(tbl.Conflicts, "expression grammar is SLR(1)")
}

func Test_BuildTable_dangling_else_conflictsWithoutPolicy(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("if"))
	g.AddTerm(grammar.NewTerminal("then"))
	g.AddTerm(grammar.NewTerminal("else"))
	g.AddTerm(grammar.NewTerminal("id"))
	g.AddRule("S", grammar.NewProduction("if", "S", "then", "S"))
	g.AddRule("S", grammar.NewProduction("if", "S", "then", "S", "else", "S"))
	g.AddRule("S", grammar.NewProduction("id"))
	g.SetStartSymbol("S")

	tbl, err := BuildTable(*g, Policy{TablesKind: LALR})
	require.NoError(err)
	assert.NotEmpty(tbl.Conflicts, "dangling-else grammar must be ambiguous without prefer_shifts")

	tblResolved, err := BuildTable(*g, Policy{TablesKind: LALR, PreferShifts: true})
	require.NoError(err)
	assert.Empty(tblResolved.Conflicts, "prefer_shifts must resolve the dangling-else shift/reduce conflict")
}
