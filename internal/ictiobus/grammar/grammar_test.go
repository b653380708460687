package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func exprGrammar() *Grammar {
	g := NewGrammar()
	for _, t := range []string{"+", "*", "(", ")", "id"} {
		g.AddTerm(NewTerminal(t))
	}
	g.AddRule("E", NewProduction("E", "+", "T"))
	g.AddRule("E", NewProduction("T"))
	g.AddRule("T", NewProduction("T", "*", "F"))
	g.AddRule("T", NewProduction("F"))
	g.AddRule("F", NewProduction("(", "E", ")"))
	g.AddRule("F", NewProduction("id"))
	return g
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		setup     func() *Grammar
		expectErr bool
	}{
		{
			name:      "empty grammar has no start symbol",
			setup:     NewGrammar,
			expectErr: true,
		},
		{
			name: "well-formed grammar",
			setup: exprGrammar,
		},
		{
			name: "reference to unknown symbol",
			setup: func() *Grammar {
				g := NewGrammar()
				g.AddTerm(NewTerminal("a"))
				g.AddRule("S", NewProduction("a", "B"))
				return g
			},
			expectErr: true,
		},
		{
			name: "STOP used outside augmented production is rejected",
			setup: func() *Grammar {
				g := NewGrammar()
				g.AddTerm(NewTerminal("a"))
				g.AddTerm(NewTerminal(Stop))
				g.AddRule("S", NewProduction("a", Stop))
				return g
			},
			expectErr: true,
		},
		{
			name: "non-nullable LAYOUT is rejected",
			setup: func() *Grammar {
				g := exprGrammar()
				g.AddTerm(NewTerminal("ws"))
				g.AddRule("WS", NewProduction("ws"))
				g.SetLayout("WS")
				return g
			},
			expectErr: true,
		},
		{
			name: "nullable LAYOUT is accepted",
			setup: func() *Grammar {
				g := exprGrammar()
				g.AddTerm(NewTerminal("ws"))
				g.AddRule("WS", NewProduction("ws", "WS"))
				g.AddRule("WS", NewProduction())
				g.SetLayout("WS")
				return g
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			g := tc.setup()

			err := g.Validate()

			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar()
	aug := g.Augmented()

	assert.NotEqual(g.StartSymbol(), aug.StartSymbol())
	r := aug.Rule(aug.StartSymbol())
	assert.Len(r.Productions, 1)
	assert.Equal([]string{"E", Stop}, r.Productions[0].Symbols)

	// augmenting an already-augmented grammar is a no-op
	aug2 := aug.Augmented()
	assert.Equal(aug.StartSymbol(), aug2.StartSymbol())
}

func Test_Grammar_TerminalBuilders(t *testing.T) {
	assert := assert.New(t)

	base := NewTerminal("NUMBER")
	assert.Equal(DefaultPriority, base.Priority())
	assert.False(base.Prefer())
	assert.False(base.Dynamic())
	assert.False(base.Finish())
	assert.False(base.Keyword())

	derived := base.Prioritized(20).Preferred().AsDynamic().AsFinishing().AsKeyword()

	// copy-and-set never mutates the original
	assert.Equal(DefaultPriority, base.Priority())
	assert.False(base.Prefer())

	assert.Equal(20, derived.Priority())
	assert.True(derived.Prefer())
	assert.True(derived.Dynamic())
	assert.True(derived.Finish())
	assert.True(derived.Keyword())
	assert.Equal("NUMBER", derived.ID())
}

func Test_IsEpsilon(t *testing.T) {
	assert := assert.New(t)

	assert.True(IsEpsilon(Epsilon))
	assert.False(IsEpsilon([]string{"a"}))
	assert.False(IsEpsilon(nil))
}
