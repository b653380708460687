package lr

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/dekarrin/ictiobus/internal/util"
)

// NewLayoutMatcher builds the recursive inner parser spec §4.3 requires for
// the LAYOUT non-terminal: a second, independent automaton.Table rooted at
// g.LayoutSymbol(), driven by its own miniature shift/reduce loop that
// consumes the longest prefix of input the LAYOUT grammar accepts starting
// at pos. It shares parentEngine's recognizers (LAYOUT productions refer to
// terminals already registered on the main engine) rather than requiring
// them registered twice. Returns (nil, nil) when g has no LAYOUT
// non-terminal -- the caller falls back to Engine's whitespace-set default.
func NewLayoutMatcher(g grammar.Grammar, policy automaton.Policy, parentEngine *token.Engine) (token.LayoutMatcher, error) {
	if g.LayoutSymbol() == "" {
		return nil, nil
	}

	sub := g.Copy()
	sub.SetStartSymbol(g.LayoutSymbol())

	tbl, err := automaton.BuildTable(sub, policy)
	if err != nil {
		return nil, err
	}

	subEngine := token.NewEngine(sub)
	for _, term := range sub.Terminals() {
		if r, ok := parentEngine.Recognizer(term); ok {
			subEngine.Register(term, r)
		}
	}

	return layoutMatch(tbl, subEngine), nil
}

// layoutMatch returns the LayoutMatcher closure driving tbl/engine: a
// shift/reduce loop with no semantic values, stopping (without consuming
// the triggering character) at the first position where no LAYOUT
// production's ACTION applies, or where the grammar's Stop lookahead
// accepts.
func layoutMatch(tbl *automaton.Table, engine *token.Engine) token.LayoutMatcher {
	return func(input string, startPos int) (int, bool) {
		pos := startPos
		states := util.Stack[string]{Of: []string{tbl.Start}}
		consumedAny := false

		for {
			s := states.Peek()

			var acceptable []string
			for _, a := range tbl.AcceptableTerminals(s) {
				if a != grammar.Stop {
					acceptable = append(acceptable, a)
				}
			}

			ctx := token.HookContext{State: s, Pos: pos}
			_, _, cands, err := engine.Recognize(ctx, input, pos, acceptable)

			if err != nil || len(cands) == 0 {
				if applied, done := tryReduceOrAccept(tbl, &states, grammar.Stop); applied {
					if done {
						return pos - startPos, consumedAny
					}
					continue
				}
				return pos - startPos, consumedAny
			}

			tok := cands[0].Token
			acts := tbl.ACTION(s, tok.Terminal)
			if len(acts) != 1 {
				return pos - startPos, consumedAny
			}

			switch acts[0].Type {
			case automaton.Shift:
				states.Push(acts[0].State)
				pos = tok.Pos + len(tok.Lexeme)
				consumedAny = true
			case automaton.Reduce:
				applyLayoutReduce(tbl, &states, acts[0])
			case automaton.Accept:
				return pos - startPos, consumedAny
			}
		}
	}
}

// tryReduceOrAccept consults ACTION[top][terminal] when recognition failed
// to produce any candidate (the sub-parse's notion of "end of layout"):
// a pending Reduce is applied and the loop continues, an Accept ends the
// match, and no action at all means there is no more layout to consume.
func tryReduceOrAccept(tbl *automaton.Table, states *util.Stack[string], terminal string) (applied, done bool) {
	acts := tbl.ACTION(states.Peek(), terminal)
	if len(acts) != 1 {
		return false, false
	}
	switch acts[0].Type {
	case automaton.Reduce:
		applyLayoutReduce(tbl, states, acts[0])
		return true, false
	case automaton.Accept:
		return true, true
	default:
		return false, false
	}
}

func applyLayoutReduce(tbl *automaton.Table, states *util.Stack[string], act automaton.Action) {
	n := len(act.Production.Symbols)
	if grammar.IsEpsilon(act.Production.Symbols) {
		n = 0
	}
	for i := 0; i < n; i++ {
		states.Pop()
	}
	t := states.Peek()
	states.Push(tbl.GOTO(t, act.Symbol))
}
