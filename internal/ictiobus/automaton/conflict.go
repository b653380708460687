package automaton

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/util"
)

// resolveConflicts walks every ACTION cell of t with more than one candidate
// and applies spec §4.2's static resolution order: priority, then
// associativity, then the parser-wide prefer_shifts / prefer_shifts_over_empty
// policies, then dynamic deferral, leaving anything still tied as an
// unresolved Conflict. It mutates t.action in place and appends to
// t.Conflicts.
func resolveConflicts(t *Table, policy Policy) {
	for _, state := range util.OrderedKeys(t.action) {
		for _, term := range util.OrderedKeys(t.action[state]) {
			acts := t.action[state][term]
			if len(acts) < 2 {
				continue
			}

			resolved := resolveCell(t.Grammar, policy, acts)
			t.action[state][term] = resolved

			if len(resolved) > 1 {
				t.Conflicts = append(t.Conflicts, Conflict{
					State:    state,
					Terminal: term,
					Actions:  resolved,
				})
			}
		}
	}
}

// actionPriority returns the priority to use for act during conflict
// resolution: the production's priority for a reduce, the terminal's
// priority for a shift, and grammar.DefaultPriority for accept (accept never
// actually competes on priority, but every action needs one to sort by).
func actionPriority(g grammar.Grammar, act Action) int {
	switch act.Type {
	case Reduce:
		return act.Production.Priority
	case Shift:
		if g.IsTerminal(act.Symbol) {
			return g.Term(act.Symbol).Priority()
		}
		return grammar.DefaultPriority
	default:
		return grammar.DefaultPriority
	}
}

// resolveCell applies the full static resolution order to one ACTION cell's
// candidate list, returning the surviving candidates (length 1 if fully
// resolved, length >1 if a genuine conflict remains, in which case the LR
// driver fails with a GrammarError when it reaches the cell at parse time and
// the GLR driver forks on them).
func resolveCell(g grammar.Grammar, policy Policy, acts []Action) []Action {
	acts = byHighestPriority(g, acts)
	if len(acts) < 2 {
		return acts
	}

	acts = byAssociativity(acts)
	if len(acts) < 2 {
		return acts
	}

	if policy.PreferShifts {
		acts = byPreferShifts(acts, false)
		if len(acts) < 2 {
			return acts
		}
	}

	if policy.PreferShiftsOverEmpty {
		acts = byPreferShifts(acts, true)
		if len(acts) < 2 {
			return acts
		}
	}

	// Step 5, dynamic: if every remaining candidate is marked dynamic, defer
	// resolution to the runtime dynamic filter by leaving the full candidate
	// list as-is (neither a single winner nor a build-time failure case --
	// the GLR driver is the one that consults the dynamic filter at parse
	// time; see spec §4.5). A mix of dynamic and non-dynamic candidates is
	// left as an unresolved conflict, same as step 6, since there is no
	// static rule to prefer one over the other.
	if allDynamic(g, acts) {
		return acts
	}

	return acts
}

// byHighestPriority keeps only the candidates with the highest priority
// among acts (spec §4.2 step 1).
func byHighestPriority(g grammar.Grammar, acts []Action) []Action {
	best := acts[0]
	bestP := actionPriority(g, best)
	for _, a := range acts[1:] {
		p := actionPriority(g, a)
		if p > bestP {
			bestP = p
		}
	}

	var kept []Action
	for _, a := range acts {
		if actionPriority(g, a) == bestP {
			kept = append(kept, a)
		}
	}
	return kept
}

// byAssociativity resolves a shift/reduce pair where the reduce's production
// declares an associativity: left prefers the reduce, right prefers the
// shift (spec §4.2 step 2). Anything other than exactly one shift and one
// reduce, or a reduce with AssocNone, passes through unchanged.
func byAssociativity(acts []Action) []Action {
	if len(acts) != 2 {
		return acts
	}

	var shift, reduce *Action
	for i := range acts {
		switch acts[i].Type {
		case Shift:
			shift = &acts[i]
		case Reduce:
			reduce = &acts[i]
		}
	}
	if shift == nil || reduce == nil {
		return acts
	}

	switch reduce.Production.Assoc {
	case grammar.AssocLeft:
		return []Action{*reduce}
	case grammar.AssocRight:
		return []Action{*shift}
	default:
		return acts
	}
}

// byPreferShifts resolves a remaining shift/reduce tie in favor of the
// shift, unless overEmpty is true and the reduce is not an empty-production
// reduce (step 4 only applies to reduces of EMPTY productions), or the
// reduce's production opts out via NoPreferShifts/NoPreferShiftsOverEmpty
// (spec §3's nops/nopse).
func byPreferShifts(acts []Action, overEmpty bool) []Action {
	if len(acts) != 2 {
		return acts
	}

	var shift, reduce *Action
	for i := range acts {
		switch acts[i].Type {
		case Shift:
			shift = &acts[i]
		case Reduce:
			reduce = &acts[i]
		}
	}
	if shift == nil || reduce == nil {
		return acts
	}

	if overEmpty {
		if !grammar.IsEpsilon(reduce.Production.Symbols) {
			return acts
		}
		if reduce.Production.NoPreferShiftsOverEmpty {
			return acts
		}
	} else {
		if reduce.Production.NoPreferShifts {
			return acts
		}
	}

	return []Action{*shift}
}

// allDynamic reports whether every candidate in acts is marked dynamic: a
// reduce by a Dynamic production, or a shift on a Dynamic terminal.
func allDynamic(g grammar.Grammar, acts []Action) bool {
	for _, a := range acts {
		switch a.Type {
		case Reduce:
			if !a.Production.Dynamic {
				return false
			}
		case Shift:
			if !g.IsTerminal(a.Symbol) || !g.Term(a.Symbol).Dynamic() {
				return false
			}
		default:
			return false
		}
	}
	return true
}
