package glr

import (
	"fmt"
	"strings"
)

// Trace records every GSS node and link created during one Parse call, so
// it can be rendered afterward as a dot graph -- the core side of the
// out-of-scope `trace` CLI collaborator (SPEC_FULL.md §4).
// Grounded on automaton.Table.DOT and forest.Forest.ToDot's shape
// (a flat node/edge accumulator rendered in one pass), generalized to
// record across an entire run rather than a single static structure since
// the GSS itself is discarded at the end of parsing (spec §4.1
// "Lifecycle").
type Trace struct {
	nodes []traceNode
	edges []traceEdge
	ids   map[*gssNode]string
	n     int
}

type traceNode struct {
	id, label string
}

type traceEdge struct {
	from, to, label string
}

func newTrace() *Trace {
	return &Trace{ids: make(map[*gssNode]string)}
}

func (t *Trace) idFor(n *gssNode) string {
	if t == nil {
		return ""
	}
	if id, ok := t.ids[n]; ok {
		return id
	}
	t.n++
	id := fmt.Sprintf("g%d", t.n)
	t.ids[n] = id
	t.nodes = append(t.nodes, traceNode{id: id, label: fmt.Sprintf("%s@%d", n.state, n.pos)})
	return id
}

func (t *Trace) recordLink(from, to *gssNode, symbol string) {
	if t == nil {
		return
	}
	t.edges = append(t.edges, traceEdge{from: t.idFor(from), to: t.idFor(to), label: symbol})
}

// DOT renders the recorded run as a Graphviz dot graph. Edges point from a
// GSS node to the predecessor it was linked to, matching the GSS's own
// "links point backward toward the stack base" convention (spec §4.1).
func (t *Trace) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph GSS {\n\trankdir=RL;\n")
	for _, n := range t.nodes {
		fmt.Fprintf(&sb, "\t%s [shape=box,label=%q];\n", n.id, n.label)
	}
	for _, e := range t.edges {
		fmt.Fprintf(&sb, "\t%s -> %s [label=%q];\n", e.from, e.to, e.label)
	}
	sb.WriteString("}\n")
	return sb.String()
}
