package grammar

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/util"
	"github.com/stretchr/testify/assert"
)

// aikenGrammar is the classic Aiken CS143 example grammar, used by the tests
// in this file.
func aikenGrammar() *Grammar {
	g := NewGrammar()
	for _, t := range []string{"int", "plus", "times", "lparen", "rparen"} {
		g.AddTerm(NewTerminal(t))
	}
	g.AddRule("S", NewProduction("T", "X"))
	g.AddRule("T", NewProduction("lparen", "S", "rparen"))
	g.AddRule("T", NewProduction("int", "Y"))
	g.AddRule("X", NewProduction("plus", "S"))
	g.AddRule("X", NewProduction())
	g.AddRule("Y", NewProduction("times", "T"))
	g.AddRule("Y", NewProduction())
	return g
}

func Test_Grammar_Nullable(t *testing.T) {
	g := aikenGrammar()
	assert := assert.New(t)

	assert.True(g.Nullable("X"))
	assert.True(g.Nullable("Y"))
	assert.False(g.Nullable("S"))
	assert.False(g.Nullable("T"))
}

func Test_Grammar_First(t *testing.T) {
	testCases := []struct {
		alpha  []string
		expect []string
	}{
		{alpha: []string{"S"}, expect: []string{"lparen", "int"}},
		{alpha: []string{"T"}, expect: []string{"lparen", "int"}},
		{alpha: []string{"X"}, expect: []string{"plus"}},
		{alpha: []string{"Y"}, expect: []string{"times"}},
	}

	g := aikenGrammar()

	for _, tc := range testCases {
		t.Run(tc.alpha[0], func(t *testing.T) {
			assert := assert.New(t)
			actual := g.First(tc.alpha)
			assert.ElementsMatch(tc.expect, actual.Elements())
		})
	}
}

func Test_Grammar_Follow(t *testing.T) {
	testCases := []struct {
		nt     string
		expect []string
	}{
		{nt: "S", expect: []string{Stop, "rparen"}},
		{nt: "T", expect: []string{"plus", Stop, "rparen"}},
		{nt: "X", expect: []string{Stop, "rparen"}},
		{nt: "Y", expect: []string{"plus", Stop, "rparen"}},
	}

	g := aikenGrammar()

	for _, tc := range testCases {
		t.Run(tc.nt, func(t *testing.T) {
			assert := assert.New(t)
			actual := g.Follow(tc.nt)
			assert.ElementsMatch(tc.expect, actual.Elements())
		})
	}
}

func Test_Grammar_CanonicalLR0Items(t *testing.T) {
	assert := assert.New(t)

	g := aikenGrammar().Augmented()
	collection := g.CanonicalLR0Items()

	// every grammar has at least the initial state
	assert.Greater(collection.Len(), 0)
}

func Test_Grammar_LR1_CLOSURE(t *testing.T) {
	assert := assert.New(t)

	g := aikenGrammar().Augmented()
	start := MustParseLR1Item(g.StartSymbol() + " -> . S, $")
	kernel := util.NewSVSet[LR1Item]()
	kernel.Set(start.String(), start)

	closure := g.LR1_CLOSURE(kernel)

	// closure of the augmented start item must include the kernel item itself
	assert.True(closure.Has(start.String()))
	// and must have added items for S's own productions
	assert.Greater(closure.Len(), 1)
}
