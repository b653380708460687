package glr

import "github.com/dekarrin/ictiobus/internal/ictiobus/forest"

// gssNode is one node of the Graph-Structured Stack (spec §4.5): a
// uniquified (state, position) pair carrying the set of predecessor links
// that represent every LR stack prefix sharing this suffix. Distinct from
// lr.Parser's plain state/value util.Stack, since a GLR parse must let
// many concurrent stacks share common prefixes and suffixes rather than
// keep one stack per fork.
type gssNode struct {
	state string
	pos   int
	links []gssLink
}

// gssLink is one predecessor edge: node was reached from parent by
// consuming symbol (a shift of a terminal, or a GOTO of a reduced
// non-terminal), with result holding the SPPF node that symbol's
// consumption produced.
type gssLink struct {
	parent *gssNode
	symbol string
	result forest.Node
}

// addLink adds a new predecessor edge unless an identical one (same
// parent, symbol, and result node) already exists, reporting whether it
// actually added one. Grounded on spec §4.5's "if the link was new and the
// node already existed, re-try reductions that cross the new link only" --
// this dedup is what makes that check possible.
func (n *gssNode) addLink(parent *gssNode, symbol string, result forest.Node) bool {
	for _, l := range n.links {
		if l.parent == parent && l.symbol == symbol && l.result == result {
			return false
		}
	}
	n.links = append(n.links, gssLink{parent: parent, symbol: symbol, result: result})
	return true
}

// pathResult is one path of a fixed length back through the GSS from a
// starting node: the node the path ends at (path_end) and the SPPF results
// collected along the way, in left-to-right (production right-hand-side)
// order.
type pathResult struct {
	end      *gssNode
	children []forest.Node
}

// paths enumerates every path of exactly n links starting at node and
// walking through predecessor links, as spec §4.5's reduce step requires
// ("for every path of length |p.rhs| from this head through the GSS").
// Because a GSS node may have more than one predecessor link (the point of
// sharing), a single reduce can apply across multiple distinct paths; this
// walks all of them. n == 0 (an epsilon production) yields the single
// trivial path ending at node itself with no children.
func paths(node *gssNode, n int) []pathResult {
	if n == 0 {
		return []pathResult{{end: node}}
	}

	var out []pathResult
	for _, l := range node.links {
		for _, r := range paths(l.parent, n-1) {
			children := make([]forest.Node, len(r.children)+1)
			copy(children, r.children)
			children[len(r.children)] = l.result
			out = append(out, pathResult{end: r.end, children: children})
		}
	}
	return out
}
