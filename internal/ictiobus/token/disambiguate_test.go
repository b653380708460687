package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Resolve_priority(t *testing.T) {
	assert := assert.New(t)

	cands := []Candidate{
		{Token: Token{Terminal: "low", Lexeme: "x"}, Priority: 5},
		{Token: Token{Terminal: "high", Lexeme: "x"}, Priority: 10},
	}

	got := Resolve(cands)

	assert.Len(got, 1)
	assert.Equal("high", got[0].Token.Terminal)
}

func Test_Resolve_specificity(t *testing.T) {
	assert := assert.New(t)

	cands := []Candidate{
		{Token: Token{Terminal: "str", Lexeme: "if"}, Priority: 10, Kind: KindString},
		{Token: Token{Terminal: "ident", Lexeme: "if"}, Priority: 10, Kind: KindRegex},
	}

	got := Resolve(cands)

	assert.Len(got, 1)
	assert.Equal("str", got[0].Token.Terminal)
}

func Test_Resolve_length(t *testing.T) {
	assert := assert.New(t)

	cands := []Candidate{
		{Token: Token{Terminal: "ident", Lexeme: "i"}, Priority: 10, Kind: KindRegex},
		{Token: Token{Terminal: "ident2", Lexeme: "if"}, Priority: 10, Kind: KindRegex},
	}

	got := Resolve(cands)

	assert.Len(got, 1)
	assert.Equal("if", got[0].Token.Lexeme)
}

func Test_Resolve_prefer(t *testing.T) {
	assert := assert.New(t)

	cands := []Candidate{
		{Token: Token{Terminal: "ident", Lexeme: "if"}, Priority: 10, Kind: KindRegex, Prefer: false},
		{Token: Token{Terminal: "kw_if", Lexeme: "if"}, Priority: 10, Kind: KindRegex, Prefer: true},
	}

	got := Resolve(cands)

	assert.Len(got, 1)
	assert.Equal("kw_if", got[0].Token.Terminal)
}

func Test_Resolve_stillAmbiguous(t *testing.T) {
	assert := assert.New(t)

	cands := []Candidate{
		{Token: Token{Terminal: "a", Lexeme: "if"}, Priority: 10, Kind: KindRegex},
		{Token: Token{Terminal: "b", Lexeme: "if"}, Priority: 10, Kind: KindRegex},
	}

	got := Resolve(cands)

	assert.Len(got, 2)
}

func Test_Resolve_empty(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(Resolve(nil))
}
