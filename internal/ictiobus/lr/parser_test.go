package lr

import (
	"strconv"
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sumGrammar builds S -> E; E -> E '+' num | num, left-recursive so a chain
// of additions reduces left to right, letting the "sum" action accumulate.
func sumGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("+"))
	g.AddTerm(grammar.NewTerminal("num"))
	g.AddRule("S", grammar.NewProduction("E"))

	sumProd := grammar.NewProduction("E", "+", "num")
	sumProd.Meta = map[string]any{"action": "sum"}
	g.AddRule("E", sumProd)

	numProd := grammar.NewProduction("num")
	numProd.Meta = map[string]any{"action": "num_literal"}
	g.AddRule("E", numProd)

	g.SetStartSymbol("S")
	return *g
}

func sumEngine(t *testing.T, g grammar.Grammar) *token.Engine {
	e := token.NewEngine(g)
	e.Register("+", token.StringRecognizer("+"))
	numRec, err := token.RegexRecognizer(`\d+`)
	require.NoError(t, err)
	e.Register("num", numRec)
	return e
}

func sumActions() *runtime.Registry {
	r := runtime.NewRegistry()
	r.Register("sum", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		left := children[0].(int)
		n, err := strconv.Atoi(children[2].(string))
		if err != nil {
			return nil, err
		}
		return left + n, nil
	})
	r.Register("num_literal", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		return strconv.Atoi(children[0].(string))
	})
	return r
}

func Test_Parser_Parse_inline_singleNumber(t *testing.T) {
	require := require.New(t)

	g := sumGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.LALR})
	require.NoError(err)
	require.Empty(tbl.Conflicts)

	engine := sumEngine(t, tbl.Grammar)
	actions := sumActions()

	// S -> E has no bound action in Meta, so Parser's structural default
	// (single child -> nochange) is exercised here for the outermost reduce.
	p := NewParser(tbl, engine, WithActions(actions))
	res, err := p.Parse("42")
	require.NoError(err)
	assert.Equal(t, 42, res.Value)
}

func Test_Parser_Parse_inline_chainedSum(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := sumGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.LALR})
	require.NoError(err)

	engine := sumEngine(t, tbl.Grammar)
	actions := sumActions()

	p := NewParser(tbl, engine, WithActions(actions))
	res, err := p.Parse("1+2+3")
	require.NoError(err)
	assert.Equal(6, res.Value)
}

func Test_Parser_Parse_buildTree(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := sumGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.LALR})
	require.NoError(err)

	engine := sumEngine(t, tbl.Grammar)

	p := NewParser(tbl, engine, WithBuildTree())
	res, err := p.Parse("1+2+3")
	require.NoError(err)
	require.NotNil(res.Tree)
	assert.Equal("S", res.Tree.Symbol)
}

func Test_Parser_Parse_unexpectedInput(t *testing.T) {
	require := require.New(t)

	g := sumGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.LALR})
	require.NoError(err)

	engine := sumEngine(t, tbl.Grammar)
	p := NewParser(tbl, engine, WithActions(sumActions()))

	_, err = p.Parse("1+")
	require.Error(err)
}

func Test_Parser_Parse_trailingGarbageErrors(t *testing.T) {
	require := require.New(t)

	g := sumGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.LALR})
	require.NoError(err)

	engine := sumEngine(t, tbl.Grammar)
	p := NewParser(tbl, engine, WithActions(sumActions()))

	_, err = p.Parse("1 2")
	require.Error(err)
}
