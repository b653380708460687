package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
)

func smallGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("a"))
	g.AddTerm(grammar.NewTerminal("b"))
	g.AddRule("S", grammar.NewProduction("a", "S", "b"))
	g.AddRule("S", grammar.NewProduction())
	g.SetStartSymbol("S")
	return *g
}

func Test_SaveTable_LoadTable_roundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := smallGrammar()
	policy := automaton.Policy{PreferShifts: true, TablesKind: automaton.CLR1}
	orig, err := automaton.BuildTable(g, policy)
	require.NoError(err)

	data, err := SaveTable(orig)
	require.NoError(err)
	require.NotEmpty(data)

	reloaded, err := LoadTable(data)
	require.NoError(err)

	assert.ElementsMatch(orig.States(), reloaded.States())
	for _, state := range orig.States() {
		assert.ElementsMatch(orig.AcceptableTerminals(state), reloaded.AcceptableTerminals(state), "state %s", state)
		for _, term := range orig.AcceptableTerminals(state) {
			assert.Equal(len(orig.ACTION(state, term)), len(reloaded.ACTION(state, term)), "state %s term %s", state, term)
		}
	}
	assert.Equal(orig.OriginalStart(), reloaded.OriginalStart())
}

func Test_LoadTable_corruptData(t *testing.T) {
	_, err := LoadTable([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}
