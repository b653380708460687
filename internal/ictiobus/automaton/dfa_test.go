package automaton

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/util"
	"github.com/stretchr/testify/assert"
)

// cGrammar is the classic 2-rule LALR(1)-but-not-SLR(1) example from
// https://www.cs.york.ac.uk/fp/lsa/lectures/lalr.pdf:
//
//	S -> C C
//	C -> c C | d
func cGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("c"))
	g.AddTerm(grammar.NewTerminal("d"))
	g.AddRule("S", grammar.NewProduction("C", "C"))
	g.AddRule("C", grammar.NewProduction("c", "C"))
	g.AddRule("C", grammar.NewProduction("d"))
	return *g
}

func Test_NewLR1ViablePrefixDFA(t *testing.T) {
	assert := assert.New(t)

	g := cGrammar()
	dfa := NewLR1ViablePrefixDFA(g)

	assert.NoError(dfa.Validate())
	assert.NotEmpty(dfa.Start)

	// the DFA must have at least one state
	assert.Greater(dfa.States().Len(), 0)
}

func Test_NewLALR1ViablePrefixDFA(t *testing.T) {
	assert := assert.New(t)

	g := cGrammar()
	actual, err := NewLALR1ViablePrefixDFA(g)
	assert.NoError(err)

	// the LALR(1) automaton for this grammar is known to have strictly
	// fewer states than the canonical LR(1) one, since C's two states
	// (reached after consuming a "c" at different stack depths) share a
	// core and merge without creating a new reduce/reduce conflict.
	lr1 := NewLR1ViablePrefixDFA(g)
	assert.Less(actual.States().Len(), lr1.States().Len())
	assert.NoError(actual.Validate())
}

func Test_NewLR0ViablePrefixNFA(t *testing.T) {
	assert := assert.New(t)

	g := cGrammar()
	nfa := NewLR0ViablePrefixNFA(g)

	assert.NotEmpty(nfa.Start)
	assert.Greater(nfa.States().Len(), 0)
}

func buildDFA(from map[string][]string, start string, acceptingStates []string) *DFA[string] {
	dfa := &DFA[string]{}

	acceptSet := util.StringSetOf(acceptingStates)

	for k := range from {
		dfa.AddState(k, acceptSet.Has(k))
		dfa.SetValue(k, k)
	}

	// add transitions AFTER all states are already in or it will cause a panic
	for k := range from {
		for i := range from[k] {
			transition := mustParseFATransition(from[k][i])
			dfa.AddTransition(k, transition.input, transition.next)
		}
	}

	dfa.Start = start

	return dfa
}

func Test_DFA_NumberStates(t *testing.T) {
	assert := assert.New(t)

	dfa := buildDFA(map[string][]string{
		"A": {"=(x)=> B"},
		"B": {"=(y)=> A"},
	}, "A", []string{"B"})

	dfa.NumberStates()

	assert.Equal("0", dfa.Start)
	assert.True(dfa.IsAccepting(dfa.Next("0", "x")))
}
