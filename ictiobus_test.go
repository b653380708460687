package ictiobus_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/lr"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// sumActions returns a registry with the two actions sumGrammar's
// productions bind by name: num_literal converts the recognized lexeme to
// an int, add folds a running total with the next recognized number.
func sumActions() *runtime.Registry {
	r := runtime.NewRegistry()
	r.Register("num_literal", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		return strconv.Atoi(children[0].(string))
	})
	r.Register("add", func(_ runtime.Context, children []any, _ map[string]any) (any, error) {
		n, err := strconv.Atoi(children[2].(string))
		if err != nil {
			return nil, err
		}
		return children[0].(int) + n, nil
	})
	return r
}

// sumGrammar builds S -> S "+" num | num, with actions that fold the
// productions into an int total -- small enough to hand-verify the table
// constructors and Frontend in one pass.
func sumGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("+"))
	g.AddTerm(grammar.NewTerminal("num"))

	add := grammar.NewProduction("S", "+", "num")
	add.Meta = map[string]any{"action": "add"}
	g.AddRule("S", add)

	base := grammar.NewProduction("num")
	base.Meta = map[string]any{"action": "num_literal"}
	g.AddRule("S", base)

	g.SetStartSymbol("S")
	return *g
}

func sumEngine(t *testing.T, g grammar.Grammar) *token.Engine {
	t.Helper()
	eng := token.NewEngine(g)
	eng.Register("+", token.StringRecognizer("+"))
	numRec, err := token.RegexRecognizer(`\d+`)
	if err != nil {
		t.Fatalf("build num recognizer: %v", err)
	}
	eng.Register("num", numRec)
	return eng
}

func Test_NewLALR1Table_NewParser_smoke(t *testing.T) {
	g := sumGrammar(t)
	tbl, err := ictiobus.NewLALR1Table(g, false, false)
	assert := assert.New(t)
	assert.NoError(err)
	assert.NotNil(tbl)

	eng := sumEngine(t, tbl.Grammar)
	p := ictiobus.NewParser(tbl, eng, lr.WithActions(sumActions()))
	res, err := p.Parse("1+2+3")
	assert.NoError(err)
	assert.Equal(6, res.Value)
}

func Test_NewSLRTable_NewCLRTable_buildWithoutError(t *testing.T) {
	g := sumGrammar(t)
	assert := assert.New(t)

	slrTbl, err := ictiobus.NewSLRTable(g, false, false)
	assert.NoError(err)
	assert.NotNil(slrTbl)

	clrTbl, err := ictiobus.NewCLRTable(g, false, false)
	assert.NoError(err)
	assert.NotNil(clrTbl)
}

func Test_Frontend_Analyze_typedResult(t *testing.T) {
	g := sumGrammar(t)
	tbl, err := ictiobus.NewLALR1Table(g, false, false)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	eng := sumEngine(t, tbl.Grammar)

	fe := ictiobus.Frontend[int]{
		Table:  tbl,
		Engine: eng,
		Opts:   []lr.Option{lr.WithActions(sumActions())},
	}

	ir, err := fe.Analyze("1+2+3")
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(6, ir)
}

func Test_Frontend_Analyze_wrongTypeParam_errors(t *testing.T) {
	g := sumGrammar(t)
	tbl, err := ictiobus.NewLALR1Table(g, false, false)
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	eng := sumEngine(t, tbl.Grammar)

	fe := ictiobus.Frontend[string]{
		Table:  tbl,
		Engine: eng,
		Opts:   []lr.Option{lr.WithActions(sumActions())},
	}

	_, err = fe.Analyze("1+2+3")
	assert.Error(t, err)
}
