package forest

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
)

// degrees returns, in a canonical left-to-right top-down traversal order,
// the packed-alternative count of every distinct non-terminal node
// reachable from root (each listed once regardless of how many times it is
// shared), and a lookup from node identity to its index in that list. This
// is the mixed-radix basis Tree(i) decodes against.
func degrees(root *NonTerminalNode) ([]int, map[*NonTerminalNode]int) {
	var order []*NonTerminalNode
	index := make(map[*NonTerminalNode]int)

	var walk func(n *NonTerminalNode)
	walk = func(n *NonTerminalNode) {
		if _, ok := index[n]; ok {
			return
		}
		index[n] = len(order)
		order = append(order, n)
		if len(n.Packs) == 0 {
			return
		}
		// every alternative of every node is walked, so every node reachable
		// through any alternative of an ancestor gets a slot. A node is keyed
		// purely by its own identity, so this never under-counts.
		for _, pk := range n.Packs {
			for _, c := range pk.Children {
				if nt, ok := c.(*NonTerminalNode); ok {
					walk(nt)
				}
			}
		}
	}
	walk(root)

	deg := make([]int, len(order))
	for i, n := range order {
		deg[i] = len(n.Packs)
	}
	return deg, index
}

// Tree returns a lazy, materialized view of the i-th tree encoded by the
// forest rooted at f.Roots[0] (spec §4.6 names a single Forest as a
// collection of trees over one accepted parse; a Forest with more than one
// root -- the consume_input=false case -- is enumerated root by root by the
// caller). i must be in [0, Solutions()).
func (f *Forest) Tree(i int) (*runtime.Tree, error) {
	if len(f.Roots) == 0 {
		return nil, fmt.Errorf("forest has no roots")
	}
	if !f.IsFinite() {
		return nil, fmt.Errorf("forest is not finite (cyclic ambiguity); cannot enumerate by index")
	}

	root := f.Roots[0]
	deg, index := degrees(root)

	total := 1
	for _, d := range deg {
		total *= d
	}
	if i < 0 || i >= total {
		return nil, fmt.Errorf("tree index %d out of range [0, %d)", i, total)
	}

	// decode i into one choice per distinct node, most-significant node
	// (the root, index 0) varying slowest.
	choice := make([]int, len(deg))
	rem := i
	for k := len(deg) - 1; k >= 0; k-- {
		if deg[k] == 0 {
			continue
		}
		choice[k] = rem % deg[k]
		rem /= deg[k]
	}

	var materialize func(n Node) *runtime.Tree
	materialize = func(n Node) *runtime.Tree {
		switch v := n.(type) {
		case *TerminalNode:
			return runtime.Leaf(v.Token)
		case *NonTerminalNode:
			pk := v.Packs[choice[index[v]]]
			children := make([]*runtime.Tree, len(pk.Children))
			for ci, c := range pk.Children {
				children[ci] = materialize(c)
			}
			prod := pk.Production
			return &runtime.Tree{Symbol: v.Symbol, Children: children, Production: &prod}
		}
		return nil
	}

	return materialize(root), nil
}

// GetFirstTree returns a materialized view of some one tree the forest
// encodes, without enumerating -- spec §4.6's fast path, choosing the first
// packed alternative at every ambiguous node.
func (f *Forest) GetFirstTree() (*runtime.Tree, error) {
	if len(f.Roots) == 0 {
		return nil, fmt.Errorf("forest has no roots")
	}

	var materialize func(n Node) *runtime.Tree
	materialize = func(n Node) *runtime.Tree {
		switch v := n.(type) {
		case *TerminalNode:
			return runtime.Leaf(v.Token)
		case *NonTerminalNode:
			pk := v.Packs[0]
			children := make([]*runtime.Tree, len(pk.Children))
			for ci, c := range pk.Children {
				children[ci] = materialize(c)
			}
			prod := pk.Production
			return &runtime.Tree{Symbol: v.Symbol, Children: children, Production: &prod}
		}
		return nil
	}

	return materialize(f.Roots[0]), nil
}

// Visit is the depth-first traversal primitive spec §4.6 names: it visits
// root and every descendant once per reachable path, unless memoize is
// true (then a node already visited returns its cached result without
// recursing again), and fails with an error if detectCycles is true and a
// node is reached while still on the current DFS stack. visit receives the
// node and the already-computed results of its children (for a
// NonTerminalNode with multiple packed alternatives, one child-result slice
// per alternative, in Packs order; a TerminalNode has none).
func Visit(root Node, visit func(n Node, childResults [][]any) (any, error), memoize, detectCycles bool) (any, error) {
	cache := make(map[Node]any)
	onStack := make(map[Node]bool)

	var walk func(n Node) (any, error)
	walk = func(n Node) (any, error) {
		if memoize {
			if v, ok := cache[n]; ok {
				return v, nil
			}
		}
		if detectCycles {
			if onStack[n] {
				return nil, fmt.Errorf("cycle detected at forest node")
			}
			onStack[n] = true
			defer delete(onStack, n)
		}

		nt, ok := n.(*NonTerminalNode)
		if !ok {
			v, err := visit(n, nil)
			if err == nil && memoize {
				cache[n] = v
			}
			return v, err
		}

		results := make([][]any, len(nt.Packs))
		for pi, pk := range nt.Packs {
			row := make([]any, len(pk.Children))
			for ci, c := range pk.Children {
				r, err := walk(c)
				if err != nil {
					return nil, err
				}
				row[ci] = r
			}
			results[pi] = row
		}

		v, err := visit(n, results)
		if err == nil && memoize {
			cache[n] = v
		}
		return v, err
	}

	return walk(root)
}
