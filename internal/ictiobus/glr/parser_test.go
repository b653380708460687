package glr

import (
	"strconv"
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ambiguousExprGrammar is spec §8 scenario 2's grammar: E -> E + E | E * E |
// num, with neither priority nor associativity declared, so "1 + 2 * 3"
// parses two ways.
func ambiguousExprGrammar() grammar.Grammar {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("+"))
	g.AddTerm(grammar.NewTerminal("*"))
	g.AddTerm(grammar.NewTerminal("num"))

	addProd := grammar.NewProduction("E", "+", "E")
	addProd.Meta = map[string]any{"action": "add"}
	g.AddRule("E", addProd)

	mulProd := grammar.NewProduction("E", "*", "E")
	mulProd.Meta = map[string]any{"action": "mul"}
	g.AddRule("E", mulProd)

	numProd := grammar.NewProduction("num")
	numProd.Meta = map[string]any{"action": "num_literal"}
	g.AddRule("E", numProd)

	g.SetStartSymbol("E")
	return *g
}

func ambiguousExprEngine(t *testing.T, g grammar.Grammar) *token.Engine {
	e := token.NewEngine(g)
	e.Register("+", token.StringRecognizer("+"))
	e.Register("*", token.StringRecognizer("*"))
	numRec, err := token.RegexRecognizer(`\d+`)
	require.NoError(t, err)
	e.Register("num", numRec)
	return e
}

func ambiguousExprActions() *runtime.Registry {
	r := runtime.NewRegistry()
	r.Register("add", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		return children[0].(int) + children[2].(int), nil
	})
	r.Register("mul", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		return children[0].(int) * children[2].(int), nil
	})
	r.Register("num_literal", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		return strconv.Atoi(children[0].(string))
	})
	return r
}

func Test_Parser_Parse_ambiguousExpression(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := ambiguousExprGrammar()
	// CLR1 (full LR(1), no merging) avoids the LALR-merge conflicts this
	// intentionally ambiguous grammar would otherwise also pick up from
	// lookahead union; GLR wants exactly the operator-precedence
	// ambiguity, not extra LALR-merge noise.
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.CLR1})
	require.NoError(err)

	engine := ambiguousExprEngine(t, tbl.Grammar)
	p := NewParser(tbl, engine)

	res, err := p.Parse("1+2*3")
	require.NoError(err)
	require.NotNil(res.Forest)
	require.NotEmpty(res.Forest.Roots)

	assert.Equal(1, res.Forest.Ambiguities())
	assert.Equal(2, res.Forest.Solutions())

	walker := lr.NewParser(tbl, engine, lr.WithActions(ambiguousExprActions()))

	tree0, err := res.Forest.Tree(0)
	require.NoError(err)
	v0, err := walker.CallActions("1+2*3", tree0)
	require.NoError(err)

	tree1, err := res.Forest.Tree(1)
	require.NoError(err)
	v1, err := walker.CallActions("1+2*3", tree1)
	require.NoError(err)

	got := map[int]bool{v0.(int): true, v1.(int): true}
	assert.True(got[7], "expected one tree to evaluate to 7 (1+(2*3))")
	assert.True(got[9], "expected one tree to evaluate to 9 ((1+2)*3)")
}

func Test_Parser_Parse_unambiguousSingleTree(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g := ambiguousExprGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.CLR1})
	require.NoError(err)

	engine := ambiguousExprEngine(t, tbl.Grammar)
	p := NewParser(tbl, engine)

	res, err := p.Parse("1+2")
	require.NoError(err)
	assert.Equal(0, res.Forest.Ambiguities())
	assert.Equal(1, res.Forest.Solutions())
}

func Test_Parser_Parse_noAccept_returnsParseError(t *testing.T) {
	require := require.New(t)

	g := ambiguousExprGrammar()
	tbl, err := automaton.BuildTable(g, automaton.Policy{TablesKind: automaton.CLR1})
	require.NoError(err)

	engine := ambiguousExprEngine(t, tbl.Grammar)
	p := NewParser(tbl, engine)

	_, err = p.Parse("1+")
	require.Error(err)
}
