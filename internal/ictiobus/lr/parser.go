// Package lr is the deterministic LR driver (C5): a shift/reduce loop over
// an automaton.Table, recognizing tokens against the acceptable-terminal set
// of the top-of-stack state via token.Engine instead of pre-tokenizing the
// whole input (spec §4.4). Grounded on the teacher's parse/lr.go lrParser
// (the stack/state-peek/push/pop/trace shape, and Algorithm 4.44's
// shift/reduce/accept dispatch), generalized for scannerless recognition and
// the two build modes spec §4.4 names: in-line action invocation during
// reduces, and tree-then-walk.
package lr

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/dekarrin/ictiobus/internal/ictiobus/trace"
	"github.com/dekarrin/ictiobus/internal/ierrors"
	"github.com/dekarrin/ictiobus/internal/util"
)

// ErrorHook is spec §7's on_error(context, error) -> bool. ctx is passed by
// pointer so a hook that returns true can report the recovered state by
// setting ctx.TokenAhead; returning false, or returning true with
// ctx.TokenAhead left nil, surfaces the error or falls through to the
// default scan-forward recovery, respectively.
type ErrorHook func(ctx *runtime.Context, err error) bool

// Parser is a deterministic LR(1)/LALR(1)/SLR(1) parser over a single
// pre-built automaton.Table.
type Parser struct {
	table     *automaton.Table
	gram      grammar.Grammar
	engine    *token.Engine
	actions   *runtime.Registry
	tracer    trace.Tracer
	buildTree bool
	errHook   ErrorHook
	fileName  string

	// Errors collects every ParseError a successful recovery absorbed
	// during the most recent Parse call (spec §7 "errors list").
	Errors []error
}

// Option configures a Parser at construction.
type Option func(*Parser)

// WithTracer installs t as the trace listener for state stack pushes/pops
// and action dispatch.
func WithTracer(t trace.Tracer) Option {
	return func(p *Parser) { p.tracer = t }
}

// WithActions installs a custom runtime.Registry in place of the default
// (runtime.NewRegistry()).
func WithActions(r *runtime.Registry) Option {
	return func(p *Parser) { p.actions = r }
}

// WithBuildTree selects tree-then-walk mode: Parse builds a runtime.Tree and
// defers every action invocation to a subsequent CallActions, instead of invoking
// actions in-line during reduces.
func WithBuildTree() Option {
	return func(p *Parser) { p.buildTree = true }
}

// WithErrorHook installs the spec §7 error/recovery hook. Without one
// installed, any ParseError is returned immediately from Parse.
func WithErrorHook(h ErrorHook) Option {
	return func(p *Parser) { p.errHook = h }
}

// WithFileName attaches name to every Context built during the parse, for
// error messages and multi-file tooling.
func WithFileName(name string) Option {
	return func(p *Parser) { p.fileName = name }
}

// NewParser returns a Parser driving tbl and recognizing tokens via engine.
// tbl and engine must have been built from the same (augmented) grammar.
func NewParser(tbl *automaton.Table, engine *token.Engine, opts ...Option) *Parser {
	p := &Parser{
		table:   tbl,
		gram:    tbl.Grammar,
		engine:  engine,
		actions: runtime.NewRegistry(),
		tracer:  trace.NopTracer{},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// stackValue is what Parser carries alongside each state on the parse
// stack: the token that caused a shift, or the tree/action result a reduce
// produced, never both.
type stackValue struct {
	tok   *token.Token
	tree  *runtime.Tree
	val   any
	start int
}

// Result is what a successful Parse returns: the in-line action result (nil
// in tree-only mode), and/or the built parse tree (nil unless WithBuildTree
// was given).
type Result struct {
	Value any
	Tree  *runtime.Tree
}

// Parse runs the shift/reduce loop over input from position 0 to
// acceptance, per spec §4.4's Algorithm-4.44-derived state machine.
func (p *Parser) Parse(input string) (Result, error) {
	p.Errors = nil

	states := util.Stack[string]{Of: []string{p.table.Start}}
	values := util.Stack[stackValue]{}

	pos := 0
	var ahead *token.Token
	var aheadLayout string

	nextToken := func() error {
		s := states.Peek()

		// Stop ($) is the synthetic end-of-input marker, never a recognized
		// terminal -- it is only ever produced once pos reaches the end of
		// input, after layout has been consumed.
		var acceptable []string
		for _, a := range p.table.AcceptableTerminals(s) {
			if a != grammar.Stop {
				acceptable = append(acceptable, a)
			}
		}

		ctx := token.HookContext{FileName: p.fileName, State: s, Pos: pos}
		layout, newPos, cands, err := p.engine.Recognize(ctx, input, pos, acceptable)
		if err != nil {
			return err
		}

		if len(cands) == 0 {
			if newPos >= len(input) {
				ahead = &token.Token{Terminal: grammar.Stop, Pos: newPos, LayoutContent: layout}
				aheadLayout = layout
				pos = newPos
				return nil
			}
			return p.parseErrorAt(s, newPos, input, states)
		}
		if len(cands) > 1 {
			names := make([]string, len(cands))
			for i, c := range cands {
				names[i] = c.Token.Terminal
			}
			return ierrors.Disambiguation(fmt.Sprintf("position %d", newPos), names)
		}

		tok := cands[0].Token
		tok.Pos = newPos
		tok.LayoutContent = layout
		ahead = &tok
		aheadLayout = layout
		pos = newPos
		return nil
	}

	if err := nextToken(); err != nil {
		if !p.recover(&err, &states, &ahead, &pos, input) {
			return Result{}, err
		}
	}

	for {
		s := states.Peek()
		p.trace("state.peek(): %s", s)

		acts := p.table.ACTION(s, ahead.Terminal)
		if len(acts) == 0 {
			err := p.parseErrorAt(s, pos, input, states)
			if p.recover(&err, &states, &ahead, &pos, input) {
				continue
			}
			return Result{}, err
		}
		if len(acts) > 1 {
			return Result{}, ierrors.Grammarf(p.gram.StartSymbol(), "state %s has an unresolved conflict on %q; the LR driver requires |ACTION| <= 1", s, ahead.Terminal)
		}

		act := acts[0]
		p.trace("ACTION: %s", act.String())

		switch act.Type {
		case automaton.Shift:
			states.Push(act.State)
			values.Push(stackValue{tok: ahead, start: ahead.Pos})
			if p.buildTree {
				values.Of[len(values.Of)-1].tree = runtime.Leaf(*ahead)
			}

			// advance past the shifted token's lexeme -- nextToken() only
			// tracks the position layout-matching left off at (the start of
			// the token it just recognized), never where that token ends.
			pos = ahead.Pos + len(ahead.Lexeme)

			if err := nextToken(); err != nil {
				if !p.recover(&err, &states, &ahead, &pos, input) {
					return Result{}, err
				}
			}

		case automaton.Reduce:
			n := len(act.Production.Symbols)
			if grammar.IsEpsilon(act.Production.Symbols) {
				n = 0
			}

			children := make([]any, n)
			trees := make([]*runtime.Tree, n)
			startPos := pos
			for i := n - 1; i >= 0; i-- {
				states.Pop()
				sv := values.Pop()
				if sv.tok != nil {
					children[i] = sv.tok.Value
				} else {
					children[i] = sv.val
				}
				startPos = sv.start
				trees[i] = sv.tree
			}

			var result any
			var node *runtime.Tree
			if p.buildTree {
				node = &runtime.Tree{Symbol: act.Symbol, Children: trees, Production: &act.Production}
			}
			if !p.buildTree {
				a, ok := p.actions.Get(actionNameFor(act.Production))
				if !ok {
					a = runtime.NoChange
					if n != 1 {
						a = runtime.None
					}
				}
				ctx := runtime.Context{
					Input:         input,
					FileName:      p.fileName,
					StartPosition: startPos,
					EndPosition:   pos,
					LayoutContent: aheadLayout,
					TokenAhead:    ahead,
					Production:    &act.Production,
					Symbol:        act.Symbol,
					State:         s,
					Extra:         make(map[string]any),
				}
				v, err := a(ctx, children, nil)
				if err != nil {
					return Result{}, ierrors.WrapParse(err, "action for %s -> %s failed: %v", act.Symbol, act.Production.String(), err)
				}
				result = v
			}

			t := states.Peek()
			toPush := p.table.GOTO(t, act.Symbol)
			if toPush == "" {
				return Result{}, ierrors.Parsef("no GOTO[%s][%s]; grammar/table mismatch", t, act.Symbol)
			}
			states.Push(toPush)
			values.Push(stackValue{val: result, tree: node, start: startPos})

		case automaton.Accept:
			// the top value is the STOP token shifted just before acceptance;
			// the start symbol's result sits beneath it
			sv := values.Pop()
			if sv.tok != nil && sv.tok.Terminal == grammar.Stop && !values.Empty() {
				sv = values.Pop()
			}
			return Result{Value: sv.val, Tree: sv.tree}, nil
		}
	}
}

func (p *Parser) trace(format string, args ...interface{}) {
	trace.Fn(p.tracer, func() string { return fmt.Sprintf(format, args...) })
}

// actionNameFor looks up a production's bound action identifier from its
// Meta map (key "action"), falling back to "" (caller substitutes a
// structural default) when unset.
func actionNameFor(p grammar.Production) string {
	if p.Meta == nil {
		return ""
	}
	if v, ok := p.Meta["action"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (p *Parser) parseErrorAt(state string, pos int, input string, states util.Stack[string]) error {
	expected := p.table.AcceptableTerminals(state)

	var tokensAhead []string
	for _, term := range p.gram.Terminals() {
		ctx := token.HookContext{FileName: p.fileName, State: state, Pos: pos}
		_, _, cands, _ := p.engine.Recognize(ctx, input, pos, []string{term})
		for _, c := range cands {
			tokensAhead = append(tokensAhead, c.Token.Terminal)
		}
	}

	return ierrors.Parse(ierrors.ParseErrorArgs{
		Location:        fmt.Sprintf("position %d", pos),
		SymbolsExpected: expected,
		TokensAhead:     tokensAhead,
		SymbolsBefore:   []string{states.Peek()},
		Grammar:         p.gram.StartSymbol(),
	})
}

// recover runs the error hook (if any) over err, otherwise spec §7's default
// recovery: scan forward for a position where some acceptable terminal
// recognizes, set ahead/pos there, and report success. Returns true iff
// parsing should continue.
func (p *Parser) recover(err *error, states *util.Stack[string], ahead **token.Token, pos *int, input string) bool {
	pe, ok := (*err).(*ierrors.ParseError)
	if !ok {
		return false
	}

	ctx := &runtime.Context{Input: input, FileName: p.fileName, StartPosition: *pos, State: states.Peek(), Extra: make(map[string]any)}

	if p.errHook != nil {
		if !p.errHook(ctx, pe) {
			return false
		}
		if ctx.TokenAhead == nil {
			// The hook claimed recovery but left no token_ahead to resume
			// with; fall through to the default scan-forward routine rather
			// than spin on the same error.
		} else {
			*ahead = ctx.TokenAhead
			*pos = ctx.TokenAhead.Pos
			p.Errors = append(p.Errors, pe)
			return true
		}
	}

	newPos, tok, ok := p.defaultRecovery(states.Peek(), pe.SymbolsExpected, input, *pos)
	if !ok {
		return false
	}

	*pos = newPos
	*ahead = tok
	p.Errors = append(p.Errors, pe)
	return true
}

// defaultRecovery implements spec §7's default recovery routine verbatim:
// scan forward attempting recognition at successive positions until one
// yields a token whose terminal is in symbolsExpected.
func (p *Parser) defaultRecovery(state string, symbolsExpected []string, input string, from int) (int, *token.Token, bool) {
	expected := util.NewStringSet()
	for _, s := range symbolsExpected {
		expected.Add(s)
	}

	for pos := from; pos <= len(input); pos++ {
		ctx := token.HookContext{FileName: p.fileName, State: state, Pos: pos}
		layout, newPos, cands, err := p.engine.Recognize(ctx, input, pos, symbolsExpected)
		if err != nil || len(cands) == 0 {
			continue
		}
		for _, c := range cands {
			if expected.Has(c.Token.Terminal) {
				tok := c.Token
				tok.Pos = newPos
				tok.LayoutContent = layout
				return newPos, &tok, true
			}
		}
	}
	return 0, nil, false
}
