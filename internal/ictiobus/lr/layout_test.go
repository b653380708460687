package lr

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/stretchr/testify/require"
)

// layoutGrammar builds a tiny LAYOUT sub-grammar: LAYOUT -> LAYOUT WS |
// LAYOUT COMMENT | ε, i.e. any run of whitespace and/or line comments.
func layoutGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("id"))
	g.AddTerm(grammar.NewTerminal("WS"))
	g.AddTerm(grammar.NewTerminal("COMMENT"))

	g.AddRule("S", grammar.NewProduction("id"))

	g.AddRule("LAYOUT", grammar.NewProduction("LAYOUT", "WS"))
	g.AddRule("LAYOUT", grammar.NewProduction("LAYOUT", "COMMENT"))
	g.AddRule("LAYOUT", grammar.NewProduction())

	g.SetStartSymbol("S")
	g.SetLayout("LAYOUT")
	return *g
}

func Test_NewLayoutMatcher_consumesWhitespaceAndComments(t *testing.T) {
	require := require.New(t)

	g := layoutGrammar()
	policy := automaton.Policy{TablesKind: automaton.LALR}

	tbl, err := automaton.BuildTable(g, policy)
	require.NoError(err)

	engine := token.NewEngine(tbl.Grammar)
	engine.Register("id", token.MustRegexRecognizer(`[a-z]+`))
	engine.Register("WS", token.MustRegexRecognizer(`[ \t\n]+`))
	engine.Register("COMMENT", token.MustRegexRecognizer(`//[^\n]*`))

	lm, err := NewLayoutMatcher(g, policy, engine)
	require.NoError(err)
	require.NotNil(lm)

	engine.SetLayout(lm)

	input := "  // a comment\n x"
	n, ok := lm(input, 0)
	require.True(ok)
	require.Equal("  // a comment\n ", input[:n])
}

func Test_NewLayoutMatcher_noLayoutSymbol(t *testing.T) {
	require := require.New(t)

	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("id"))
	g.AddRule("S", grammar.NewProduction("id"))

	lm, err := NewLayoutMatcher(*g, automaton.Policy{}, token.NewEngine(*g))
	require.NoError(err)
	require.Nil(lm)
}
