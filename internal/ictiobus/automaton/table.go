package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/util"
)

// ActionType names the three kinds of ACTION table entry spec §4.2 defines.
// Grounded on the teacher's parse/lraction.go LRActionType/LRAction pair,
// generalized so each cell holds a list (ACTION[state][terminal] may have
// more than one entry — the GLR driver forks on that, the LR driver treats
// it as an unresolved-conflict GrammarError).
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table cell entry.
type Action struct {
	Type ActionType

	// State is the target state, used only when Type is Shift.
	State string

	// Symbol is the shifted terminal when Type is Shift. Together with
	// Production it identifies the production to reduce when Type is Reduce.
	Symbol     string
	Production grammar.Production
}

func (act Action) String() string {
	switch act.Type {
	case Accept:
		return "ACTION<accept>"
	case Reduce:
		return fmt.Sprintf("ACTION<reduce %s -> %s>", act.Symbol, act.Production.String())
	case Shift:
		return fmt.Sprintf("ACTION<shift %s>", act.State)
	default:
		return "ACTION<error>"
	}
}

// TablesKind selects which construction the automaton package uses to build
// a Table's states: the modified-LALR merge spec.md mandates, or the two
// supplementary alternatives SPEC_FULL.md §4 names (canonical LR(1), and
// SLR built on the plain LR(0) automaton plus FOLLOW-set lookaheads).
type TablesKind int

const (
	LALR TablesKind = iota
	CLR1
	SLR
)

func (k TablesKind) String() string {
	switch k {
	case CLR1:
		return "clr1"
	case SLR:
		return "slr"
	default:
		return "lalr"
	}
}

// Policy is the pair of boolean conflict-resolution policies spec §4.2
// names, plus the table-kind selector SPEC_FULL.md §4 adds. A built Table
// is a pure function of (Grammar, Policy) -- see spec §6 "Persisted tables".
type Policy struct {
	PreferShifts          bool
	PreferShiftsOverEmpty bool
	TablesKind            TablesKind
}

// Conflict records one ACTION cell where more than one candidate action
// remained after static resolution (spec §4.2 step 6). The LR driver turns
// any Conflict left in a built Table into a GrammarError; the GLR driver
// accepts the table as-is and forks on such cells at parse time.
type Conflict struct {
	State    string
	Terminal string
	Actions  []Action
}

// Table is the ACTION/GOTO table spec §3/§4.2 describes, plus the automaton
// it was built from (needed by automaton.Table.DOT() and by the layout
// sub-parser, which is itself just a nested Table over the LAYOUT
// sub-grammar).
type Table struct {
	Grammar grammar.Grammar
	Policy  Policy

	Start string

	action map[string]map[string][]Action
	goTo   map[string]map[string]string

	// Conflicts lists every ACTION cell static resolution left with more
	// than one action, ordered by state name and then terminal name (each
	// sorted as strings).
	Conflicts []Conflict
}

// ACTION returns the (possibly empty, possibly multi-element) action list
// for state and terminal.
func (t *Table) ACTION(state, terminal string) []Action {
	return t.action[state][terminal]
}

// GOTO returns the target state for state and non-terminal nt, or "" if
// undefined.
func (t *Table) GOTO(state, nt string) string {
	return t.goTo[state][nt]
}

// States returns every state name the table has an ACTION/GOTO row for.
func (t *Table) States() []string {
	return util.OrderedKeys(t.action)
}

// AcceptableTerminals returns terms(state): the terminals with an ACTION
// entry in state, i.e. the set the token runtime (C4) is asked to
// recognize against at this state (spec §4.3).
func (t *Table) AcceptableTerminals(state string) []string {
	return util.OrderedKeys(t.action[state])
}

// BuildTable constructs a Table for g under policy. g need not already be
// augmented; BuildTable augments it itself.
func BuildTable(g grammar.Grammar, policy Policy) (*Table, error) {
	g = g.Augmented()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("grammar is invalid: %w", err)
	}

	switch policy.TablesKind {
	case CLR1:
		dfa := NewLR1ViablePrefixDFA(g)
		return buildFromLR1(g, dfa, policy)
	case SLR:
		dfa := NewLR0ViablePrefixNFA(g).ToDFA()
		dfa.NumberStates()
		return buildFromLR0(g, dfa, policy)
	default:
		dfa, err := NewLALR1ViablePrefixDFA(g)
		if err != nil {
			return nil, err
		}
		return buildFromLR1(g, dfa, policy)
	}
}

// OriginalStart returns the un-augmented grammar's start symbol: the first
// symbol of the augmented start production S' -> S STOP (spec §3). The
// glr package needs this to locate the real parse root's SPPF node in the
// GSS, which is attached under a GOTO labeled with this symbol rather than
// with t.Grammar.StartSymbol() (the synthetic S').
func (t *Table) OriginalStart() string {
	_, prod := augmentedProduction(t.Grammar)
	return prod.Symbols[0]
}

// augmentedProduction locates g's start symbol's single production S' -> S
// STOP (the marker Grammar.Augmented leaves behind).
func augmentedProduction(g grammar.Grammar) (nt string, prod grammar.Production) {
	nt = g.StartSymbol()
	r := g.Rule(nt)
	return nt, r.Productions[0]
}

// findProduction locates the Production registered for non-terminal nt
// whose right-hand side is rhs, by symbol-for-symbol comparison (an LR0Item
// only carries bare symbol names, not a Production index).
func findProduction(g grammar.Grammar, nt string, rhs []string) (grammar.Production, bool) {
	r := g.Rule(nt)
	for _, p := range r.Productions {
		if grammar.IsEpsilon(p.Symbols) {
			if len(rhs) == 0 {
				return p, true
			}
			continue
		}
		if len(p.Symbols) != len(rhs) {
			continue
		}
		match := true
		for i := range rhs {
			if p.Symbols[i] != rhs[i] {
				match = false
				break
			}
		}
		if match {
			return p, true
		}
	}
	return grammar.Production{}, false
}

func buildFromLR1(g grammar.Grammar, dfa DFA[util.SVSet[grammar.LR1Item]], policy Policy) (*Table, error) {
	dfa.NumberStates()

	augNT, _ := augmentedProduction(g)

	t := &Table{
		Grammar: g,
		Policy:  policy,
		Start:   dfa.Start,
		action:  make(map[string]map[string][]Action),
		goTo:    make(map[string]map[string]string),
	}

	for _, state := range dfa.States().Elements() {
		t.action[state] = make(map[string][]Action)
	}

	// shifts and GOTOs come directly from the DFA's transitions
	for _, state := range dfa.States().Elements() {
		for sym, target := range dfa.TransitionsFrom(state) {
			if g.IsTerminal(sym) {
				addCandidate(t, state, sym, Action{Type: Shift, State: target, Symbol: sym})
			} else {
				if t.goTo[state] == nil {
					t.goTo[state] = make(map[string]string)
				}
				t.goTo[state][sym] = target
			}
		}
	}

	// reduces (and accept) come from complete items in each state's value
	for _, state := range dfa.States().Elements() {
		items := dfa.GetValue(state)
		for _, key := range items.Elements() {
			item := items.Get(key)
			if !item.Complete() {
				continue
			}

			if item.NonTerminal == augNT {
				addCandidate(t, state, item.Lookahead, Action{Type: Accept})
				continue
			}

			prod, ok := findProduction(g, item.NonTerminal, item.Left)
			if !ok {
				return nil, fmt.Errorf("internal error: no production %s -> %v found in grammar", item.NonTerminal, item.Left)
			}
			addCandidate(t, state, item.Lookahead, Action{Type: Reduce, Symbol: item.NonTerminal, Production: prod})
		}
	}

	resolveConflicts(t, policy)

	return t, nil
}

func buildFromLR0(g grammar.Grammar, dfa DFA[util.SVSet[grammar.LR0Item]], policy Policy) (*Table, error) {
	augNT, _ := augmentedProduction(g)

	t := &Table{
		Grammar: g,
		Policy:  policy,
		Start:   dfa.Start,
		action:  make(map[string]map[string][]Action),
		goTo:    make(map[string]map[string]string),
	}

	for _, state := range dfa.States().Elements() {
		t.action[state] = make(map[string][]Action)
	}

	for _, state := range dfa.States().Elements() {
		for sym, target := range dfa.TransitionsFrom(state) {
			if g.IsTerminal(sym) {
				addCandidate(t, state, sym, Action{Type: Shift, State: target, Symbol: sym})
			} else {
				if t.goTo[state] == nil {
					t.goTo[state] = make(map[string]string)
				}
				t.goTo[state][sym] = target
			}
		}
	}

	for _, state := range dfa.States().Elements() {
		items := dfa.GetValue(state)
		for _, key := range items.Elements() {
			item := items.Get(key)
			if !item.Complete() {
				continue
			}

			if item.NonTerminal == augNT {
				addCandidate(t, state, grammar.Stop, Action{Type: Accept})
				continue
			}

			prod, ok := findProduction(g, item.NonTerminal, item.Left)
			if !ok {
				return nil, fmt.Errorf("internal error: no production %s -> %v found in grammar", item.NonTerminal, item.Left)
			}

			// SLR: reduce lookaheads are FOLLOW(item.NonTerminal), not the
			// item's own lookahead (LR0 items carry none).
			for _, x := range g.Follow(item.NonTerminal).Elements() {
				addCandidate(t, state, x, Action{Type: Reduce, Symbol: item.NonTerminal, Production: prod})
			}
		}
	}

	resolveConflicts(t, policy)

	return t, nil
}

// addCandidate appends act to the candidate list for (state, terminal),
// skipping exact duplicates (the same shift target or the same production
// reached via two distinct items, which happens routinely after LALR
// merging).
func addCandidate(t *Table, state, terminal string, act Action) {
	if t.action[state] == nil {
		t.action[state] = make(map[string][]Action)
	}
	for _, existing := range t.action[state][terminal] {
		if actionsEqual(existing, act) {
			return
		}
	}
	t.action[state][terminal] = append(t.action[state][terminal], act)
}

func actionsEqual(a, b Action) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case Shift:
		return a.State == b.State
	case Reduce:
		return a.Symbol == b.Symbol && a.Production.Equal(b.Production)
	default:
		return true
	}
}

// String renders the ACTION/GOTO table via rosed, the same pretty-printed
// layout the teacher's parse/lalr.go lalr1Table.String() uses.
func (t *Table) String() string {
	terms := t.Grammar.Terminals()
	nts := t.Grammar.NonTerminals()

	headers := []string{"State", "|"}
	headers = append(headers, terms...)
	headers = append(headers, "|")
	headers = append(headers, nts...)

	data := [][]string{headers}

	for _, s := range t.States() {
		row := []string{s, "|"}

		for _, term := range terms {
			cell := ""
			acts := t.ACTION(s, term)
			if len(acts) == 1 {
				switch acts[0].Type {
				case Accept:
					cell = "acc"
				case Reduce:
					cell = fmt.Sprintf("r%s -> %s", acts[0].Symbol, acts[0].Production.String())
				case Shift:
					cell = "s" + acts[0].State
				}
			} else if len(acts) > 1 {
				cell = fmt.Sprintf("CONFLICT(%d)", len(acts))
			}
			row = append(row, cell)
		}

		row = append(row, "|")

		for _, nt := range nts {
			row = append(row, t.GOTO(s, nt))
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// DOT renders the underlying state graph in Graphviz dot format, the core
// side of the out-of-scope `viz` CLI collaborator (SPEC_FULL.md §4),
// grounded on DFA[E].String()'s own debug rendering.
func (t *Table) DOT() string {
	var sb strings.Builder
	sb.WriteString("digraph Table {\n\trankdir=LR;\n")
	for _, s := range t.States() {
		shape := "circle"
		sb.WriteString(fmt.Sprintf("\t%q [shape=%s];\n", s, shape))
	}
	for _, s := range t.States() {
		for term, acts := range t.action[s] {
			for _, a := range acts {
				if a.Type == Shift {
					sb.WriteString(fmt.Sprintf("\t%q -> %q [label=%q];\n", s, a.State, term))
				}
			}
		}
		for nt, target := range t.goTo[s] {
			sb.WriteString(fmt.Sprintf("\t%q -> %q [label=%q,style=dashed];\n", s, target, nt))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
