// Package forest implements the Shared Packed Parse Forest (SPPF) spec §4.6
// names as the GLR driver's output representation: a DAG of terminal and
// non-terminal nodes where a non-terminal node may carry more than one
// packed alternative (one per distinct derivation reaching the same
// (symbol, start, end) span), so ambiguity is represented by sharing rather
// than by duplicating subtrees.
//
// No file in the retrieval pack builds anything SPPF-shaped -- the
// teacher's parse package is LR-only and produces a single concrete tree
// (see runtime.Tree) -- so this package is grounded on spec §4.5/§4.6's
// prose directly, using runtime.Tree's leaf/children shape as the idiom for
// the materialized view a chosen derivation produces (forest.Tree.Value,
// forest.Tree.Children mirror runtime.Tree's field names).
package forest

import (
	"fmt"
	"strings"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// Node is the common interface of TerminalNode and NonTerminalNode: every
// SPPF node spans a half-open byte range of the input.
type Node interface {
	Span() (start, end int)
	isNode()
}

// TerminalNode is a leaf SPPF node: one recognized token.
type TerminalNode struct {
	Token token.Token
	Start int
	End   int
}

func (n *TerminalNode) Span() (int, int) { return n.Start, n.End }
func (*TerminalNode) isNode()            {}

// Packed is one derivation of a NonTerminalNode: the production that
// produced it and the child nodes in left-to-right order (empty for an
// epsilon production).
type Packed struct {
	Production grammar.Production
	Children   []Node
}

// key returns an identity string for (production, child node identities),
// used by AddPacked to enforce the "packed-alternative idempotence"
// invariant spec §8 names: adding a Packed with the same production and
// same child identities as an existing one must be a no-op.
func (p Packed) key() string {
	var sb strings.Builder
	sb.WriteString(p.Production.String())
	for _, c := range p.Children {
		s, e := c.Span()
		fmt.Fprintf(&sb, "|%p:%d:%d", c, s, e)
	}
	return sb.String()
}

// NonTerminalNode is an SPPF node for a non-terminal spanning [Start, End).
// It is uniqued per (Symbol, Start, End) within one forest (spec §4.5's GSS
// reduce step relies on this for sharing); Packs holds one entry per
// distinct derivation reaching this span, in the order they were first
// added.
type NonTerminalNode struct {
	Symbol string
	Start  int
	End    int
	Packs  []Packed

	seen map[string]bool
}

func (n *NonTerminalNode) Span() (int, int) { return n.Start, n.End }
func (*NonTerminalNode) isNode()            {}

// Ambiguous reports whether n has more than one packed alternative.
func (n *NonTerminalNode) Ambiguous() bool { return len(n.Packs) > 1 }

// Forest is a handle to the set of accepted SPPF roots spec §4.6 describes.
// A successful GLR parse produces exactly one root per accepting head that
// shares the same (start symbol, 0, len(input)) span -- in practice exactly
// one, since the augmented grammar has a single start production -- but the
// type allows more than one to stay honest about heads that accepted at
// distinct spans under consume_input=false (spec §9 open question).
type Forest struct {
	Roots []*NonTerminalNode
}

// Solutions returns the total number of distinct trees the forest encodes:
// the product, over every distinct non-terminal node reachable from the
// roots (each counted once despite however many times it is shared), of
// that node's packed-alternative count. Returns 0 if the forest has no
// roots, and -1 if the count is not finite (see IsFinite).
func (f *Forest) Solutions() int {
	if !f.IsFinite() {
		return -1
	}
	if len(f.Roots) == 0 {
		return 0
	}

	total := 0
	for _, root := range f.Roots {
		seen := make(map[*NonTerminalNode]bool)
		product := 1
		var walk func(n *NonTerminalNode)
		walk = func(n *NonTerminalNode) {
			if seen[n] {
				return
			}
			seen[n] = true
			product *= len(n.Packs)
			for _, pk := range n.Packs {
				for _, c := range pk.Children {
					if nt, ok := c.(*NonTerminalNode); ok {
						walk(nt)
					}
				}
			}
		}
		walk(root)
		total += product
	}
	return total
}

// Ambiguities returns the count of distinct non-terminal nodes reachable
// from the roots with more than one packed alternative.
func (f *Forest) Ambiguities() int {
	seen := make(map[*NonTerminalNode]bool)
	count := 0
	var walk func(n *NonTerminalNode)
	walk = func(n *NonTerminalNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		if n.Ambiguous() {
			count++
		}
		for _, pk := range n.Packs {
			for _, c := range pk.Children {
				if nt, ok := c.(*NonTerminalNode); ok {
					walk(nt)
				}
			}
		}
	}
	for _, root := range f.Roots {
		walk(root)
	}
	return count
}

// IsFinite reports whether the forest's tree count is finite, i.e. whether
// a non-terminal node ever reaches itself through its own packed
// alternatives (spec §9's cyclic-grammar case, e.g. `A: A | a;`). A cycle
// makes Solutions undefined (infinitely many identical-looking trees), so
// callers must check this before trusting Solutions() or enumerating by
// index.
func (f *Forest) IsFinite() bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[*NonTerminalNode]int)

	var visit func(n *NonTerminalNode) bool
	visit = func(n *NonTerminalNode) bool {
		switch color[n] {
		case gray:
			return false
		case black:
			return true
		}
		color[n] = gray
		for _, pk := range n.Packs {
			for _, c := range pk.Children {
				if nt, ok := c.(*NonTerminalNode); ok {
					if !visit(nt) {
						return false
					}
				}
			}
		}
		color[n] = black
		return true
	}

	for _, root := range f.Roots {
		if !visit(root) {
			return false
		}
	}
	return true
}

// ToStr renders every root tree as a parenthesized s-expression, explicitly
// marking ambiguous nodes with "{n}" (n packed alternatives) the way
// runtime.Tree.String renders an unambiguous tree.
func (f *Forest) ToStr() string {
	var sb strings.Builder
	for i, root := range f.Roots {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeNode(&sb, root)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *TerminalNode:
		sb.WriteString(v.Token.Lexeme)
	case *NonTerminalNode:
		sb.WriteByte('(')
		sb.WriteString(v.Symbol)
		if v.Ambiguous() {
			fmt.Fprintf(sb, "{%d}", len(v.Packs))
		}
		for pi, pk := range v.Packs {
			if v.Ambiguous() {
				fmt.Fprintf(sb, " alt%d[", pi)
			}
			for _, c := range pk.Children {
				sb.WriteByte(' ')
				writeNode(sb, c)
			}
			if v.Ambiguous() {
				sb.WriteByte(']')
			}
		}
		sb.WriteByte(')')
	}
}

// ToDot renders the forest as a Graphviz dot graph, the core side of the
// out-of-scope `trace`/`viz` CLI collaborators (SPEC_FULL.md §4); packed
// alternatives fan out from a diamond "pack" node so ambiguity is visible
// without duplicating the shared subtree.
func (f *Forest) ToDot() string {
	var sb strings.Builder
	sb.WriteString("digraph Forest {\n\trankdir=TB;\n")
	ids := make(map[Node]string)
	n := 0
	nextID := func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}

	var emit func(node Node) string
	emit = func(node Node) string {
		if id, ok := ids[node]; ok {
			return id
		}
		id := nextID()
		ids[node] = id

		switch v := node.(type) {
		case *TerminalNode:
			fmt.Fprintf(&sb, "\t%s [shape=box,label=%q];\n", id, v.Token.Lexeme)
		case *NonTerminalNode:
			fmt.Fprintf(&sb, "\t%s [shape=ellipse,label=%q];\n", id, fmt.Sprintf("%s[%d,%d)", v.Symbol, v.Start, v.End))
			for pi, pk := range v.Packs {
				packID := fmt.Sprintf("%s_p%d", id, pi)
				fmt.Fprintf(&sb, "\t%s [shape=diamond,label=%q];\n", packID, pk.Production.String())
				fmt.Fprintf(&sb, "\t%s -> %s;\n", id, packID)
				for _, c := range pk.Children {
					cid := emit(c)
					fmt.Fprintf(&sb, "\t%s -> %s;\n", packID, cid)
				}
			}
		}
		return id
	}

	for _, root := range f.Roots {
		emit(root)
	}
	sb.WriteString("}\n")
	return sb.String()
}
