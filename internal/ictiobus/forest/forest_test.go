package forest

import (
	"testing"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numProd() grammar.Production { return grammar.NewProduction("num") }
func sumProd() grammar.Production { return grammar.NewProduction("E", "+", "E") }

func leaf(b *Builder, terminal, lexeme string, pos int) *TerminalNode {
	return b.Terminal(token.Token{Terminal: terminal, Lexeme: lexeme, Pos: pos})
}

// ambiguousForest builds the classic "1 + 2 * 3" shape collapsed to just
// the additive ambiguity: E[0,5) has two packed alternatives, one grouping
// "1+2" first and one grouping "2+3" first (mirroring spec §8 scenario 2's
// two-tree shape without needing a real parse to produce it).
func ambiguousForest() *Forest {
	b := NewBuilder()

	n1 := b.GetOrCreateNonTerminal("E", 0, 1)
	n1.AddPacked(numProd(), []Node{leaf(b, "num", "1", 0)})

	n2 := b.GetOrCreateNonTerminal("E", 2, 3)
	n2.AddPacked(numProd(), []Node{leaf(b, "num", "2", 2)})

	n3 := b.GetOrCreateNonTerminal("E", 4, 5)
	n3.AddPacked(numProd(), []Node{leaf(b, "num", "3", 4)})

	inner := b.GetOrCreateNonTerminal("E", 0, 3)
	inner.AddPacked(sumProd(), []Node{n1, leaf(b, "+", "+", 1), n2})

	root := b.GetOrCreateNonTerminal("E", 0, 5)
	root.AddPacked(sumProd(), []Node{inner, leaf(b, "+", "+", 3), n3})
	// a second, distinct derivation for the same span: groups n2+n3 first
	inner2 := b.GetOrCreateNonTerminal("E", 2, 5)
	inner2.AddPacked(sumProd(), []Node{n2, leaf(b, "+", "+", 3), n3})
	root.AddPacked(sumProd(), []Node{n1, leaf(b, "+", "+", 1), inner2})

	return &Forest{Roots: []*NonTerminalNode{root}}
}

func Test_Forest_Ambiguities(t *testing.T) {
	f := ambiguousForest()
	assert.Equal(t, 1, f.Ambiguities())
}

func Test_Forest_Solutions(t *testing.T) {
	f := ambiguousForest()
	assert.Equal(t, 2, f.Solutions())
}

func Test_Forest_AddPacked_idempotent(t *testing.T) {
	require := require.New(t)
	b := NewBuilder()
	n := b.GetOrCreateNonTerminal("E", 0, 1)
	c := []Node{leaf(b, "num", "1", 0)}

	added := n.AddPacked(numProd(), c)
	require.True(added)
	addedAgain := n.AddPacked(numProd(), c)
	require.False(addedAgain)
	require.Len(n.Packs, 1)
}

func Test_Forest_IsFinite_detectsCycle(t *testing.T) {
	b := NewBuilder()
	a := b.GetOrCreateNonTerminal("A", 0, 1)
	a.AddPacked(grammar.NewProduction("A"), []Node{a})

	f := &Forest{Roots: []*NonTerminalNode{a}}
	assert.False(t, f.IsFinite())
}

func Test_Forest_Tree_materializesChosenAlternative(t *testing.T) {
	require := require.New(t)
	f := ambiguousForest()

	tree0, err := f.Tree(0)
	require.NoError(err)
	require.NotNil(tree0)
	require.Equal("E", tree0.Symbol)

	tree1, err := f.Tree(1)
	require.NoError(err)
	require.NotNil(tree1)
	require.NotEqual(tree0.String(), tree1.String())
}

func Test_Forest_GetFirstTree(t *testing.T) {
	require := require.New(t)
	f := ambiguousForest()

	tree, err := f.GetFirstTree()
	require.NoError(err)
	require.Equal("E", tree.Symbol)
}

func Test_Visit_memoizesSharedNode(t *testing.T) {
	require := require.New(t)
	f := ambiguousForest()

	calls := 0
	_, err := Visit(f.Roots[0], func(n Node, children [][]any) (any, error) {
		calls++
		return nil, nil
	}, true, true)
	require.NoError(err)
	// 6 distinct non-terminal nodes and 7 distinct terminal leaves, each
	// visited once; without memoization the shared n1/n2/n3 subtrees would be
	// visited once per path (19 calls)
	require.Equal(13, calls)
}
