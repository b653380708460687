package grammar

import (
	"github.com/dekarrin/ictiobus/internal/util"
)

// Nullable reports whether non-terminal nt can derive the empty string.
// Spec §4.1: computed by fixed-point iteration; EMPTY contributes to
// nullability but is never itself a member of FIRST.
func (g Grammar) Nullable(nt string) bool {
	return g.nullableSet()[nt]
}

func (g Grammar) nullableSet() map[string]bool {
	nullable := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			if nullable[nt] {
				continue
			}
			r := g.rules[nt]
			for _, p := range r.Productions {
				if IsEpsilon(p.Symbols) {
					nullable[nt] = true
					changed = true
					break
				}
				all := true
				for _, sym := range p.Symbols {
					if g.IsTerminal(sym) {
						all = false
						break
					}
					if !nullable[sym] {
						all = false
						break
					}
				}
				if all {
					nullable[nt] = true
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// First returns FIRST(alpha): the set of terminals that can begin some
// string derived from the symbol sequence alpha. STOP may appear in the
// result only if alpha itself contains STOP; EMPTY is never a member,
// matching spec §4.1.
func (g Grammar) First(alpha []string) util.StringSet {
	nullable := g.nullableSet()
	first := g.firstSets(nullable)

	return g.firstOfSequence(alpha, nullable, first)
}

// firstSets computes FIRST(X) for every single grammar symbol X in one
// fixed-point pass, which First(alpha) (and FOLLOW) then combine for
// multi-symbol sequences.
func (g Grammar) firstSets(nullable map[string]bool) map[string]util.StringSet {
	first := map[string]util.StringSet{}

	for _, t := range g.termOrder {
		first[t] = util.NewStringSet()
		first[t].Add(t)
	}
	first[Stop] = util.NewStringSet()
	first[Stop].Add(Stop)

	for _, nt := range g.ruleOrder {
		first[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			r := g.rules[nt]
			for _, p := range r.Productions {
				if IsEpsilon(p.Symbols) {
					continue
				}
				for _, sym := range p.Symbols {
					before := first[nt].Len()
					first[nt].AddAll(first[sym])
					if first[nt].Len() != before {
						changed = true
					}
					if !nullable[sym] {
						break
					}
				}
			}
		}
	}

	return first
}

func (g Grammar) firstOfSequence(alpha []string, nullable map[string]bool, first map[string]util.StringSet) util.StringSet {
	result := util.NewStringSet()

	if IsEpsilon(alpha) {
		return result
	}

	for _, sym := range alpha {
		result.AddAll(first[sym])
		isNullable := nullable[sym]
		if g.IsTerminal(sym) {
			isNullable = false
		}
		if !isNullable {
			return result
		}
	}

	return result
}

// Follow returns FOLLOW(nt): the set of terminals that may immediately
// follow nt in some sentential form, including STOP for the start symbol of
// an augmented grammar (spec §4.1).
func (g Grammar) Follow(nt string) util.StringSet {
	return g.followSets()[nt]
}

func (g Grammar) followSets() map[string]util.StringSet {
	nullable := g.nullableSet()
	first := g.firstSets(nullable)

	follow := map[string]util.StringSet{}
	for _, ntName := range g.ruleOrder {
		follow[ntName] = util.NewStringSet()
	}
	if follow[g.start] == nil {
		follow[g.start] = util.NewStringSet()
	}
	follow[g.start].Add(Stop)

	changed := true
	for changed {
		changed = false
		for _, nt := range g.ruleOrder {
			r := g.rules[nt]
			for _, p := range r.Productions {
				if IsEpsilon(p.Symbols) {
					continue
				}
				for i, sym := range p.Symbols {
					if !g.IsNonTerminal(sym) {
						continue
					}
					rest := p.Symbols[i+1:]
					firstOfRest := g.firstOfSequence(rest, nullable, first)

					before := follow[sym].Len()
					follow[sym].AddAll(firstOfRest)

					restNullable := true
					for _, rsym := range rest {
						isNullable := nullable[rsym]
						if g.IsTerminal(rsym) {
							isNullable = false
						}
						if !isNullable {
							restNullable = false
							break
						}
					}
					if len(rest) == 0 || restNullable {
						follow[sym].AddAll(follow[nt])
					}

					if follow[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follow
}

// LR0Items returns every LR(0) item derivable from every production of every
// rule in g (dot in every position from 0 to len(rhs)), including the
// augmented start production if g is augmented.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item

	for _, nt := range g.ruleOrder {
		r := g.rules[nt]
		for _, p := range r.Productions {
			if IsEpsilon(p.Symbols) {
				items = append(items, LR0Item{NonTerminal: nt})
				continue
			}
			for dot := 0; dot <= len(p.Symbols); dot++ {
				items = append(items, LR0Item{
					NonTerminal: nt,
					Left:        append([]string(nil), p.Symbols[:dot]...),
					Right:       append([]string(nil), p.Symbols[dot:]...),
				})
			}
		}
	}

	return items
}

// LR0_CLOSURE computes the closure of a kernel set of LR(0) items: for every
// item with the dot before a non-terminal N, add N's productions with the
// dot at position 0, iterating to a fixed point (spec §4.2).
func (g Grammar) LR0_CLOSURE(kernel util.SVSet[LR0Item]) util.SVSet[LR0Item] {
	closure := util.NewSVSet(kernel)

	changed := true
	for changed {
		changed = false
		for _, itemStr := range closure.Elements() {
			item := closure.Get(itemStr)
			if len(item.Right) == 0 {
				continue
			}
			sym := item.Right[0]
			if !g.IsNonTerminal(sym) {
				continue
			}
			r := g.rules[sym]
			for _, p := range r.Productions {
				var newItem LR0Item
				if IsEpsilon(p.Symbols) {
					newItem = LR0Item{NonTerminal: sym}
				} else {
					newItem = LR0Item{NonTerminal: sym, Right: append([]string(nil), p.Symbols...)}
				}
				if !closure.Has(newItem.String()) {
					closure.Set(newItem.String(), newItem)
					changed = true
				}
			}
		}
	}

	return closure
}

// LR0_GOTO computes GOTO(I, X) for a (closed) set of LR(0) items I and
// symbol X: advance the dot over X in every item that has it there, then
// close the result.
func (g Grammar) LR0_GOTO(I util.SVSet[LR0Item], X string) util.SVSet[LR0Item] {
	moved := util.NewSVSet[LR0Item]()
	for _, itemStr := range I.Elements() {
		item := I.Get(itemStr)
		if len(item.Right) == 0 || item.Right[0] != X {
			continue
		}
		newItem := LR0Item{
			NonTerminal: item.NonTerminal,
			Left:        append(append([]string(nil), item.Left...), X),
			Right:       append([]string(nil), item.Right[1:]...),
		}
		moved.Set(newItem.String(), newItem)
	}
	if moved.Empty() {
		return moved
	}
	return g.LR0_CLOSURE(moved)
}

// CanonicalLR0Items computes the canonical collection of sets of LR(0)
// items for g (which must already be augmented), keyed by the
// alphabetically-ordered string form of each item set.
func (g Grammar) CanonicalLR0Items() util.SVSet[util.SVSet[LR0Item]] {
	startItem := LR0Item{NonTerminal: g.start, Right: append([]string(nil), g.rules[g.start].Productions[0].Symbols...)}
	startKernel := util.NewSVSet[LR0Item]()
	startKernel.Set(startItem.String(), startItem)
	startSet := g.LR0_CLOSURE(startKernel)

	collection := util.NewSVSet[util.SVSet[LR0Item]]()
	collection.Set(startSet.StringOrdered(), startSet)

	symbols := append(append([]string(nil), g.Terminals()...), g.NonTerminals()...)

	changed := true
	for changed {
		changed = false
		for _, key := range collection.Elements() {
			I := collection.Get(key)
			for _, X := range symbols {
				J := g.LR0_GOTO(I, X)
				if J.Empty() {
					continue
				}
				if !collection.Has(J.StringOrdered()) {
					collection.Set(J.StringOrdered(), J)
					changed = true
				}
			}
		}
	}

	return collection
}

// LR1_CLOSURE computes the closure of a kernel set of LR(1) items (spec
// §4.2's closure rule): for every item (p, dot, la) with the dot before
// non-terminal N, and for every production N -> gamma, add (N->.gamma, x)
// for each x in FIRST(rest . la).
func (g Grammar) LR1_CLOSURE(kernel util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	nullable := g.nullableSet()
	first := g.firstSets(nullable)

	closure := util.NewSVSet(kernel)

	changed := true
	for changed {
		changed = false
		for _, itemStr := range closure.Elements() {
			item := closure.Get(itemStr)
			if len(item.Right) == 0 {
				continue
			}
			sym := item.Right[0]
			if !g.IsNonTerminal(sym) {
				continue
			}

			rest := item.Right[1:]
			restFirst := g.firstOfSequence(rest, nullable, first)
			restNullable := true
			for _, rsym := range rest {
				isNullable := nullable[rsym]
				if g.IsTerminal(rsym) {
					isNullable = false
				}
				if !isNullable {
					restNullable = false
					break
				}
			}

			lookaheads := util.NewStringSet()
			lookaheads.AddAll(restFirst)
			if len(rest) == 0 || restNullable {
				lookaheads.Add(item.Lookahead)
			}

			r := g.rules[sym]
			for _, p := range r.Productions {
				var base LR0Item
				if IsEpsilon(p.Symbols) {
					base = LR0Item{NonTerminal: sym}
				} else {
					base = LR0Item{NonTerminal: sym, Right: append([]string(nil), p.Symbols...)}
				}
				for _, la := range lookaheads.Elements() {
					newItem := LR1Item{LR0Item: base, Lookahead: la}
					if !closure.Has(newItem.String()) {
						closure.Set(newItem.String(), newItem)
						changed = true
					}
				}
			}
		}
	}

	return closure
}

// LR1_GOTO computes GOTO(I, X) for a (closed) set of LR(1) items.
func (g Grammar) LR1_GOTO(I util.SVSet[LR1Item], X string) util.SVSet[LR1Item] {
	moved := util.NewSVSet[LR1Item]()
	for _, itemStr := range I.Elements() {
		item := I.Get(itemStr)
		if len(item.Right) == 0 || item.Right[0] != X {
			continue
		}
		newItem := item.Copy()
		newItem.Left = append(append([]string(nil), item.Left...), X)
		newItem.Right = append([]string(nil), item.Right[1:]...)
		moved.Set(newItem.String(), newItem)
	}
	if moved.Empty() {
		return moved
	}
	return g.LR1_CLOSURE(moved)
}
