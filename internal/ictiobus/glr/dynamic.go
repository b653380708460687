package glr

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
)

// DynamicFilter is spec §4.5's dynamic disambiguation predicate, consulted
// only for an action whose production or terminal is marked Dynamic (spec
// §9 treats dynamic as strictly the last filter, applied once per
// candidate action per head after all static resolution has already run).
// prod is non-nil only for a Reduce candidate; subresults carries that
// reduce's child SPPF nodes (forest.Node values) in production order (nil
// for Shift). Returning false drops the candidate for this head only --
// other heads, and other candidates at the same head, are unaffected.
type DynamicFilter func(ctx *runtime.Context, fromState, toState string, act automaton.Action, prod *grammar.Production, subresults []any) bool

// initDynamicFilter invokes f once with every argument at its zero value,
// per spec §4.5 ("the filter is invoked once with null arguments at the
// start of parsing to let it initialize"). The return value is discarded.
func initDynamicFilter(f DynamicFilter) {
	if f == nil {
		return
	}
	f(nil, "", "", automaton.Action{}, nil, nil)
}
