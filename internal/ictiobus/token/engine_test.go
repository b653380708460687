package token

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
)

func testEngine() *Engine {
	g := grammar.NewGrammar()
	g.AddTerm(grammar.NewTerminal("if").AsKeyword())
	g.AddTerm(grammar.NewTerminal("ident"))
	g.AddTerm(grammar.NewTerminal("ws"))
	g.AddRule("S", grammar.NewProduction("if"))

	e := NewEngine(*g)
	e.Register("if", StringRecognizer("if"))
	e.Register("ident", MustRegexRecognizer(`[a-zA-Z_][a-zA-Z0-9_]*`))
	return e
}

func Test_Engine_Recognize_keywordBoundary(t *testing.T) {
	assert := assert.New(t)

	e := testEngine()

	// "iffy" must not match the "if" keyword terminal since 'f' follows,
	// but must match "ident".
	_, _, cands, err := e.Recognize(HookContext{}, "iffy", 0, []string{"if", "ident"})
	assert.NoError(err)
	assert.Len(cands, 1)
	assert.Equal("ident", cands[0].Token.Terminal)
	assert.Equal("iffy", cands[0].Token.Lexeme)
}

func Test_Engine_Recognize_keywordAtBoundary(t *testing.T) {
	assert := assert.New(t)

	e := testEngine()

	_, _, cands, err := e.Recognize(HookContext{}, "if (x)", 0, []string{"if", "ident"})
	assert.NoError(err)
	assert.Len(cands, 1)
	assert.Equal("if", cands[0].Token.Terminal)
}

func Test_Engine_MatchLayout_defaultWhitespace(t *testing.T) {
	assert := assert.New(t)

	e := testEngine()

	layout, pos := e.MatchLayout("   abc", 0)
	assert.Equal("   ", layout)
	assert.Equal(3, pos)
}

func Test_Engine_Recognize_noMatch(t *testing.T) {
	assert := assert.New(t)

	e := testEngine()

	_, _, cands, err := e.Recognize(HookContext{}, "123", 0, []string{"if", "ident"})
	assert.NoError(err)
	assert.Empty(cands)
}

func Test_Engine_Recognize_customHook(t *testing.T) {
	assert := assert.New(t)

	e := testEngine()
	called := false
	e.SetCustomHook(func(ctx HookContext, input string, pos int, acceptable []string, next func() ([]Candidate, error)) ([]Candidate, error) {
		called = true
		return next()
	})

	_, _, cands, err := e.Recognize(HookContext{}, "if", 0, []string{"if"})
	assert.NoError(err)
	assert.True(called)
	assert.Len(cands, 1)
}
