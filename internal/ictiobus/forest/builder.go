package forest

import (
	"strconv"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// Builder accumulates the SPPF nodes a single GLR parse produces, keeping
// the per-(symbol, start, end) uniquing map spec §4.5's reduce step needs
// ("if an equivalent node already exists at this frontier with the same
// (symbol, start, end), add this derivation as a new packed alternative
// rather than creating a duplicate"). Not safe for concurrent use; one
// Builder belongs to exactly one glr.Parser run.
type Builder struct {
	nonTerms map[string]*NonTerminalNode
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{nonTerms: make(map[string]*NonTerminalNode)}
}

func ntKey(symbol string, start, end int) string {
	return symbol + "\x00" + strconv.Itoa(start) + "\x00" + strconv.Itoa(end)
}

// Terminal returns a new leaf node for a shifted token. Terminal nodes are
// never shared or uniqued (each shift produces its own), since a token
// occupies exactly one span by construction.
func (b *Builder) Terminal(tok token.Token) *TerminalNode {
	return &TerminalNode{Token: tok, Start: tok.Pos, End: tok.Pos + len(tok.Lexeme)}
}

// GetOrCreateNonTerminal returns the existing node for (symbol, start, end)
// if one exists in this builder, or creates and registers a new one.
func (b *Builder) GetOrCreateNonTerminal(symbol string, start, end int) *NonTerminalNode {
	key := ntKey(symbol, start, end)
	if n, ok := b.nonTerms[key]; ok {
		return n
	}
	n := &NonTerminalNode{Symbol: symbol, Start: start, End: end, seen: make(map[string]bool)}
	b.nonTerms[key] = n
	return n
}

// AddPacked adds a new packed alternative (prod, children) to n, unless an
// alternative with the same production and same child identities is
// already present (spec §8's packed-alternative idempotence invariant).
// Reports whether a new alternative was actually added.
func (n *NonTerminalNode) AddPacked(prod grammar.Production, children []Node) bool {
	pk := Packed{Production: prod, Children: children}
	k := pk.key()
	if n.seen == nil {
		n.seen = make(map[string]bool)
	}
	if n.seen[k] {
		return false
	}
	n.seen[k] = true
	n.Packs = append(n.Packs, pk)
	return true
}
