package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/ictiobus/internal/util"
)

// FATransition is a single edge of a finite automaton: the input symbol that
// triggers it ("" for an NFA epsilon move) and the state it leads to.
type FATransition struct {
	input string
	next  string
}

func (t FATransition) String() string {
	inp := t.input
	if inp == "" {
		inp = "ε"
	}
	return fmt.Sprintf("=(%s)=> %s", inp, t.next)
}

func mustParseFATransition(s string) FATransition {
	t, err := parseFATransition(s)
	if err != nil {
		panic(err.Error())
	}
	return t
}

func parseFATransition(s string) (FATransition, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, " ", 2)
	if len(parts) != 2 {
		return FATransition{}, fmt.Errorf("not a valid FATransition: %q", s)
	}

	left, right := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	if len(left) < 6 || left[0] != '=' || left[1] != '(' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left malformed: %q", left)
	}
	left = left[2:]
	if left[len(left)-1] != '>' || left[len(left)-2] != '=' || left[len(left)-3] != ')' {
		return FATransition{}, fmt.Errorf("not a valid FATransition: left malformed: %q", left)
	}
	input := left[:len(left)-3]
	if input == "ε" {
		input = ""
	}

	next := right
	if next == "" {
		return FATransition{}, fmt.Errorf("not a valid FATransition: bad next: %q", s)
	}

	return FATransition{input: input, next: next}, nil
}

// DFAState is one state of a DFA[E], carrying an arbitrary value E (an item
// set, in every use this package makes of it) plus its deterministic
// transition function.
type DFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string]FATransition
	accepting   bool
}

// Copy returns a duplicate of ns. The value itself is not deep-copied; every
// caller in this package treats state values as immutable once set.
func (ns DFAState[E]) Copy() DFAState[E] {
	cp := DFAState[E]{
		ordering:    ns.ordering,
		name:        ns.name,
		value:       ns.value,
		transitions: make(map[string]FATransition, len(ns.transitions)),
		accepting:   ns.accepting,
	}
	for k, v := range ns.transitions {
		cp.transitions[k] = v
	}
	return cp
}

func (ns DFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		moves.WriteString(ns.transitions[input].String())
		if i+1 < len(inputs) {
			moves.WriteRune(',')
			moves.WriteRune(' ')
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// NFAState is one state of an NFA[E]: like DFAState but each input symbol
// (including "" for epsilon) may lead to more than one next state.
type NFAState[E any] struct {
	ordering    uint64
	name        string
	value       E
	transitions map[string][]FATransition
	accepting   bool
}

// Copy returns a duplicate of ns.
func (ns NFAState[E]) Copy() NFAState[E] {
	cp := NFAState[E]{
		ordering:    ns.ordering,
		name:        ns.name,
		value:       ns.value,
		transitions: make(map[string][]FATransition, len(ns.transitions)),
		accepting:   ns.accepting,
	}
	for k, v := range ns.transitions {
		cp.transitions[k] = append([]FATransition(nil), v...)
	}
	return cp
}

func (ns NFAState[E]) String() string {
	var moves strings.Builder

	inputs := util.OrderedKeys(ns.transitions)

	for i, input := range inputs {
		var tStrings []string

		for _, t := range ns.transitions[input] {
			tStrings = append(tStrings, t.String())
		}

		sort.Strings(tStrings)

		for tIdx, t := range tStrings {
			moves.WriteString(t)
			if tIdx+1 < len(tStrings) || i+1 < len(inputs) {
				moves.WriteRune(',')
				moves.WriteRune(' ')
			}
		}
	}

	str := fmt.Sprintf("(%s [%s])", ns.name, moves.String())

	if ns.accepting {
		str = "(" + str + ")"
	}

	return str
}

// numberedStateOrder computes the renumbering plan shared by
// DFA.NumberStates and NFA.NumberStates: start goes to position 0, every
// other state (in the order names already lists them) follows, and each
// gets a numeric name equal to its position. Returns the states in their
// new order alongside the old-name -> new-name mapping.
func numberedStateOrder(start string, names []string) ([]string, map[string]string) {
	startIdx := -1
	for i := range names {
		if names[i] == start {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		panic("couldn't find starting state; should never happen")
	}

	ordered := append(names[:startIdx:startIdx], names[startIdx+1:]...)
	ordered = append([]string{start}, ordered...)

	mapping := make(map[string]string, len(ordered))
	for i, name := range ordered {
		mapping[name] = fmt.Sprintf("%d", i)
	}

	return ordered, mapping
}
