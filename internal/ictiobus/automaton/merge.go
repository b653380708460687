package automaton

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/util"
)

// reduceReduceConflictKeys returns one key per pair of distinct complete
// items ([A -> α., a] and [B -> β., a], A->α != B->β) in items that share a
// lookahead -- i.e. one key per reduce/reduce conflict the item set itself
// contains.
func reduceReduceConflictKeys(items util.SVSet[grammar.LR1Item]) util.StringSet {
	keys := util.NewStringSet()

	var complete []grammar.LR1Item
	for _, k := range items.Elements() {
		it := items.Get(k)
		if it.Complete() {
			complete = append(complete, it)
		}
	}

	for i := 0; i < len(complete); i++ {
		for j := i + 1; j < len(complete); j++ {
			a, b := complete[i], complete[j]
			if a.Lookahead != b.Lookahead {
				continue
			}
			if a.LR0Item.Equal(b.LR0Item) {
				continue
			}
			key := a.LR0Item.String() + "||" + b.LR0Item.String() + "||" + a.Lookahead
			keyRev := b.LR0Item.String() + "||" + a.LR0Item.String() + "||" + a.Lookahead
			if keys.Has(keyRev) {
				continue
			}
			keys.Add(key)
		}
	}

	return keys
}

// mergeIntroducesReduceReduceConflict implements the modified-LALR(1) merge
// rule: a set of same-core LR(1) states may only be merged into one if doing
// so does not create a reduce/reduce conflict that was absent from every one
// of the states being merged individually. If it would, the merge is
// rejected and the states are left split, same as canonical LR(1).
func mergeIntroducesReduceReduceConflict(states ...util.SVSet[grammar.LR1Item]) bool {
	merged := util.NewSVSet[grammar.LR1Item]()
	priorConflicts := util.NewStringSet()

	for _, s := range states {
		merged.AddAll(s)
		priorConflicts.AddAll(reduceReduceConflictKeys(s))
	}

	mergedConflicts := reduceReduceConflictKeys(merged)

	for _, k := range mergedConflicts.Elements() {
		if !priorConflicts.Has(k) {
			return true
		}
	}

	return false
}
