// Package glr implements the generalized LR driver spec §4.5 names: a
// non-deterministic parser over a Graph-Structured Stack (GSS) that forks
// wherever the automaton.Table retains more than one action for a
// (state, terminal) cell, yielding a forest.Forest (SPPF) of every
// surviving derivation instead of failing or arbitrarily picking one.
//
// No file in the retrieval pack builds a GSS or a frontier-scheduled
// driver -- the teacher's parse package is single-stack LR only -- so the
// frontier algorithm here is grounded directly on spec §4.5's prose,
// reusing lr.Parser's token-recognition idiom (the same nextToken shape:
// strip STOP before asking the token.Engine to recognize, synthesize a
// literal STOP token once input is exhausted) since both drivers share one
// token.Engine contract.
package glr

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/forest"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
	"github.com/dekarrin/ictiobus/internal/ictiobus/trace"
	"github.com/dekarrin/ictiobus/internal/ierrors"

	"github.com/dekarrin/ictiobus/internal/ictiobus/runtime"
)

// ErrorHook is the GLR analogue of lr.ErrorHook (spec §7's on_error). GLR's
// recovery story is weaker than LR's: individual heads dying mid-parse is
// ordinary (other heads carry on), so the hook is only consulted once
// parsing has reached a genuine dead end -- every head lost, nothing ever
// accepted. Returning true logs the error onto Result.Errors and returns
// whatever forest (possibly empty) had been built instead of raising;
// there is no mechanism to splice a recovered head back into a GSS that no
// longer exists, unlike lr.Parser's single-stack recovery.
type ErrorHook func(ctx *runtime.Context, err error) bool

// Parser is the GLR driver over a shared automaton.Table and token.Engine.
type Parser struct {
	table   *automaton.Table
	gram    grammar.Grammar
	engine  *token.Engine
	tracer  trace.Tracer
	errHook ErrorHook
	dynamic DynamicFilter

	fileName string
	graph    bool
}

// Option configures a Parser at construction, mirroring lr.Parser's
// functional-option surface.
type Option func(*Parser)

func WithTracer(t trace.Tracer) Option          { return func(p *Parser) { p.tracer = t } }
func WithErrorHook(h ErrorHook) Option           { return func(p *Parser) { p.errHook = h } }
func WithDynamicFilter(f DynamicFilter) Option   { return func(p *Parser) { p.dynamic = f } }
func WithFileName(name string) Option            { return func(p *Parser) { p.fileName = name } }
func WithGraphTrace() Option                     { return func(p *Parser) { p.graph = true } }

// NewParser returns a Parser for tbl/engine.
func NewParser(tbl *automaton.Table, engine *token.Engine, opts ...Option) *Parser {
	p := &Parser{
		table:  tbl,
		gram:   tbl.Grammar,
		engine: engine,
		tracer: trace.NopTracer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the outcome of one GLR parse.
type Result struct {
	Forest *forest.Forest

	// Errors lists every ParseError that the configured ErrorHook
	// recovered from (spec §7's "errors list"); empty when no recovery
	// was needed.
	Errors []error

	// RunID identifies this parse for log correlation across heads (the
	// runtime.Context.Head field names individual GSS heads; RunID names
	// the parse as a whole), per DESIGN.md's note on runtime.Context.Parser.
	RunID string

	// Trace is non-nil only when the Parser was built WithGraphTrace();
	// Trace.DOT() renders the full GSS run.
	Trace *Trace
}

type forReducerEntry struct {
	node *gssNode
	tok  token.Token
}

type forShifterEntry struct {
	from    *gssNode
	tok     token.Token
	toState string
}

// Parse runs the GLR frontier algorithm (spec §4.5) over input and returns
// the resulting forest.
func (p *Parser) Parse(input string) (Result, error) {
	initDynamicFilter(p.dynamic)

	runID := uuid.NewString()
	builder := forest.NewBuilder()

	var tr *Trace
	if p.graph {
		tr = newTrace()
	}

	nodesByPos := map[int]map[string]*gssNode{}
	root := &gssNode{state: p.table.Start, pos: 0}
	nodesByPos[0] = map[string]*gssNode{p.table.Start: root}
	if tr != nil {
		tr.idFor(root)
	}

	pendingSet := map[int]bool{0: true}
	var accepted []forReducerEntry
	var lastDeadStates []string
	var recoveredErrors []error

	for len(pendingSet) > 0 {
		pos := minPending(pendingSet)
		delete(pendingSet, pos)

		frontier := nodesByPos[pos]
		if len(frontier) == 0 {
			continue
		}

		var queue []forReducerEntry
		seedState := func(n *gssNode) {
			toks, err := p.recognizeFor(n.state, input, pos)
			if err != nil {
				return
			}
			for _, tok := range toks {
				queue = append(queue, forReducerEntry{node: n, tok: tok})
			}
		}
		for _, n := range orderedNodes(frontier) {
			seedState(n)
		}

		for {
			var shifts []forShifterEntry

			for len(queue) > 0 {
				entry := queue[0]
				queue = queue[1:]

				acts := p.table.ACTION(entry.node.state, entry.tok.Terminal)
				for _, act := range acts {
					switch act.Type {
					case automaton.Accept:
						accepted = append(accepted, entry)

					case automaton.Shift:
						if p.dynamic != nil && p.gram.Term(entry.tok.Terminal).Dynamic() {
							ctx := &runtime.Context{Parser: runID, State: entry.node.state, Symbol: entry.tok.Terminal}
							if !p.dynamic(ctx, entry.node.state, act.State, act, nil, nil) {
								continue
							}
						}
						shifts = append(shifts, forShifterEntry{from: entry.node, tok: entry.tok, toState: act.State})

					case automaton.Reduce:
						newEntries := p.applyReduce(builder, nodesByPos, pos, entry.node, entry.tok, act, runID, tr)
						queue = append(queue, newEntries...)
					}
				}
			}

			if len(shifts) == 0 {
				break
			}

			samePos, futurePos := partitionShifts(shifts, pos)
			newSamePosHeads := p.applyShifts(builder, nodesByPos, pendingSet, pos, samePos, tr)
			p.applyShifts(builder, nodesByPos, pendingSet, pos, futurePos, tr)

			if len(newSamePosHeads) == 0 {
				break
			}
			for _, n := range newSamePosHeads {
				seedState(n)
			}
		}

		if len(frontier) > 0 {
			lastDeadStates = stateNames(frontier)
		}
	}

	if len(accepted) == 0 {
		err := ierrors.Parse(ierrors.ParseErrorArgs{
			Location:        fmt.Sprintf("offset %d", len(input)),
			SymbolsExpected: nil,
			SymbolsBefore:   lastDeadStates,
			LastHeads:       lastDeadStates,
			Grammar:         p.gram.StartSymbol(),
		})
		if p.errHook != nil {
			ctx := &runtime.Context{Input: input, FileName: p.fileName, Parser: runID}
			if p.errHook(ctx, err) {
				recoveredErrors = append(recoveredErrors, err)
				return Result{Forest: &forest.Forest{}, Errors: recoveredErrors, RunID: runID, Trace: tr}, nil
			}
		}
		return Result{}, err
	}

	origStart := p.table.OriginalStart()
	roots := extractRoots(origStart, accepted)

	return Result{Forest: &forest.Forest{Roots: roots}, Errors: recoveredErrors, RunID: runID, Trace: tr}, nil
}

// recognizeFor recognizes every token candidate acceptable in state at
// pos, synthesizing the literal STOP token once input is exhausted, the
// same two-step shape lr.Parser's nextToken uses (strip STOP from the
// acceptable set before asking the engine to recognize real terminals).
func (p *Parser) recognizeFor(state string, input string, pos int) ([]token.Token, error) {
	var acceptable []string
	for _, a := range p.table.AcceptableTerminals(state) {
		if a != grammar.Stop {
			acceptable = append(acceptable, a)
		}
	}

	ctx := token.HookContext{FileName: p.fileName, State: state, Pos: pos}
	_, newPos, cands, err := p.engine.Recognize(ctx, input, pos, acceptable)
	if err != nil {
		return nil, err
	}

	if len(cands) == 0 {
		if newPos >= len(input) {
			return []token.Token{{Terminal: grammar.Stop, Pos: newPos}}, nil
		}
		return nil, nil
	}

	toks := make([]token.Token, len(cands))
	for i, c := range cands {
		toks[i] = c.Token
	}
	return toks, nil
}

// applyReduce enumerates every GSS path the reduce in act can apply along
// from node, builds (or extends) the SPPF non-terminal node for each, and
// creates/links the resulting GOTO target, per spec §4.5 step 2.
func (p *Parser) applyReduce(builder *forest.Builder, nodesByPos map[int]map[string]*gssNode, curPos int, node *gssNode, tok token.Token, act automaton.Action, runID string, tr *Trace) []forReducerEntry {
	n := len(act.Production.Symbols)
	if grammar.IsEpsilon(act.Production.Symbols) {
		n = 0
	}

	var out []forReducerEntry
	for _, pr := range paths(node, n) {
		toState := p.table.GOTO(pr.end.state, act.Symbol)
		if toState == "" {
			continue
		}

		if p.dynamic != nil && act.Production.Dynamic {
			ctx := &runtime.Context{Parser: runID, State: node.state, Symbol: act.Symbol}
			prodCopy := act.Production
			sub := make([]any, len(pr.children))
			for i, c := range pr.children {
				sub[i] = c
			}
			if !p.dynamic(ctx, pr.end.state, toState, act, &prodCopy, sub) {
				continue
			}
		}

		ntNode := builder.GetOrCreateNonTerminal(act.Symbol, pr.end.pos, curPos)
		ntNode.AddPacked(act.Production, pr.children)

		newHead, existed := getOrCreate(nodesByPos, curPos, toState)
		isNewLink := newHead.addLink(pr.end, act.Symbol, ntNode)
		if tr != nil && isNewLink {
			tr.recordLink(newHead, pr.end, act.Symbol)
		}

		if !existed || isNewLink {
			out = append(out, forReducerEntry{node: newHead, tok: tok})
		}
	}
	return out
}

// applyShifts performs every pending shift, grouping by destination
// (toState, newPos) so multiple heads shifting to the same place share one
// GSS node, per spec §4.5 step 3. Returns the nodes newly created or newly
// linked at curPos (a shift of a zero-length token, i.e. the synthetic STOP
// marker, lands in the same frontier rather than a future one).
func (p *Parser) applyShifts(builder *forest.Builder, nodesByPos map[int]map[string]*gssNode, pendingSet map[int]bool, curPos int, shifts []forShifterEntry, tr *Trace) []*gssNode {
	var touched []*gssNode
	for _, s := range shifts {
		newPos := s.tok.Pos + len(s.tok.Lexeme)
		node, existed := getOrCreate(nodesByPos, newPos, s.toState)
		result := builder.Terminal(s.tok)
		isNewLink := node.addLink(s.from, s.tok.Terminal, result)
		if tr != nil && isNewLink {
			tr.recordLink(node, s.from, s.tok.Terminal)
		}

		if newPos == curPos {
			if !existed || isNewLink {
				touched = append(touched, node)
			}
			continue
		}

		if !existed || isNewLink {
			pendingSet[newPos] = true
		}
	}
	return touched
}

func getOrCreate(nodesByPos map[int]map[string]*gssNode, pos int, state string) (*gssNode, bool) {
	m, ok := nodesByPos[pos]
	if !ok {
		m = make(map[string]*gssNode)
		nodesByPos[pos] = m
	}
	if n, ok := m[state]; ok {
		return n, true
	}
	n := &gssNode{state: state, pos: pos}
	m[state] = n
	return n, false
}

func partitionShifts(shifts []forShifterEntry, curPos int) (samePos, futurePos []forShifterEntry) {
	for _, s := range shifts {
		if s.tok.Pos+len(s.tok.Lexeme) == curPos {
			samePos = append(samePos, s)
		} else {
			futurePos = append(futurePos, s)
		}
	}
	return samePos, futurePos
}

func minPending(set map[int]bool) int {
	min := -1
	for k := range set {
		if min == -1 || k < min {
			min = k
		}
	}
	return min
}

func orderedNodes(m map[string]*gssNode) []*gssNode {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*gssNode, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func stateNames(m map[string]*gssNode) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extractRoots locates the SPPF node for the grammar's real (un-augmented)
// start symbol reachable from each accepted head: the head that fired
// Accept was reached by shifting the literal STOP terminal, so its SPPF
// root lives one link back, attached to the predecessor under a GOTO
// labeled with origStart.
func extractRoots(origStart string, accepted []forReducerEntry) []*forest.NonTerminalNode {
	seen := make(map[*forest.NonTerminalNode]bool)
	var roots []*forest.NonTerminalNode
	for _, a := range accepted {
		for _, l := range a.node.links {
			if l.symbol != grammar.Stop {
				continue
			}
			sHead := l.parent
			for _, l2 := range sHead.links {
				if l2.symbol != origStart {
					continue
				}
				if nt, ok := l2.result.(*forest.NonTerminalNode); ok && !seen[nt] {
					seen[nt] = true
					roots = append(roots, nt)
				}
			}
		}
	}
	return roots
}
