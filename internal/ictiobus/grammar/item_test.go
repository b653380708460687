package grammar

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/util"
	"github.com/stretchr/testify/assert"
)

func Test_ParseLR0Item(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect LR0Item
	}{
		{
			name:  "dot at start",
			input: "S -> . A B",
			expect: LR0Item{
				NonTerminal: "S",
				Right:       []string{"A", "B"},
			},
		},
		{
			name:  "dot at end",
			input: "S -> A B .",
			expect: LR0Item{
				NonTerminal: "S",
				Left:        []string{"A", "B"},
			},
		},
		{
			name:  "dot in middle",
			input: "S -> A . B",
			expect: LR0Item{
				NonTerminal: "S",
				Left:        []string{"A"},
				Right:       []string{"B"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseLR0Item(tc.input)

			assert.NoError(err)
			assert.True(tc.expect.Equal(actual), "expected %s but got %s", tc.expect, actual)
		})
	}
}

func Test_LR1Item_Equal(t *testing.T) {
	assert := assert.New(t)

	a := MustParseLR1Item("S -> A . B, $")
	b := MustParseLR1Item("S -> A . B, $")
	c := MustParseLR1Item("S -> A . B, a")

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_CoreSet(t *testing.T) {
	assert := assert.New(t)

	items := util.NewSVSet[LR1Item]()
	for _, it := range []LR1Item{
		MustParseLR1Item("S -> A . B, $"),
		MustParseLR1Item("S -> A . B, a"),
	} {
		items.Set(it.String(), it)
	}

	cores := CoreSet(items)

	assert.Equal(1, cores.Len())
}
