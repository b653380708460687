package runtime

import (
	"strings"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// Tree is the concrete parse tree the LR driver (package lr) builds when
// asked for "tree-then-walk" mode instead of invoking actions inline during
// the shift/reduce loop. It is deliberately unambiguous -- unlike
// forest.Forest, which a GLR parse produces and which may hold more than
// one derivation per span, a Tree has exactly one child list per node.
type Tree struct {
	// Symbol is the terminal or non-terminal this node derives.
	Symbol string

	// Token is set on a leaf (terminal) node.
	Token *token.Token

	// Children holds one entry per symbol on the right-hand side of the
	// production that produced this node; empty for a leaf or an EMPTY
	// reduction.
	Children []*Tree

	// Value is the user action's result for this node once actions have
	// been run (nil until then, or always nil in untyped tree-only use).
	Value any

	// Production is the grammar production that derived this node, when
	// known at build time (lr.Parser's inline tree builder and
	// forest.Tree's materialization both set it, so CallActions never has
	// to re-derive it by matching symbols against Children -- ambiguous
	// only when two productions for the same non-terminal share an
	// identical right-hand side shape, which ordinary grammars avoid but
	// which ambiguous GLR grammars do not). Nil for a leaf.
	Production *grammar.Production
}

// Leaf returns a terminal Tree node for tok.
func Leaf(tok token.Token) *Tree {
	return &Tree{Symbol: tok.Terminal, Token: &tok}
}

// IsLeaf reports whether t is a terminal (token-bearing) node.
func (t *Tree) IsLeaf() bool {
	return t.Token != nil
}

// String renders t as a parenthesized s-expression, e.g. "(E (E 1) + (E 2))".
func (t *Tree) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t *Tree) write(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Token.Lexeme)
		return
	}

	sb.WriteByte('(')
	sb.WriteString(t.Symbol)
	for _, c := range t.Children {
		sb.WriteByte(' ')
		c.write(sb)
	}
	sb.WriteByte(')')
}

// Walk calls visit for t and every descendant, pre-order.
func (t *Tree) Walk(visit func(*Tree)) {
	visit(t)
	for _, c := range t.Children {
		c.Walk(visit)
	}
}
