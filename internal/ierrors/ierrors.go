// Package ierrors defines the three error kinds the engine raises (spec §7):
// GrammarError at table-build time, DisambiguationError and ParseError at
// parse time. Each carries the structured fields the spec requires in
// addition to a human Error() string, and each Unwrap()s to a wrapped cause
// where one exists, following the same message/technical split as
// tqerrors.Interpreter in the wider monorepo.
package ierrors

import (
	"fmt"

	"github.com/dekarrin/ictiobus/internal/util"
)

// GrammarError is raised by table construction: unreachable productions,
// undefined symbols, ε-cycles the builder can't safely close over, or
// conflicts left unresolved under the selected policy.
type GrammarError struct {
	msg     string
	Grammar string
	wrap    error
}

func (e *GrammarError) Error() string { return e.msg }
func (e *GrammarError) Unwrap() error { return e.wrap }

// Grammar returns a new *GrammarError with grammarRef naming the offending
// grammar (e.g. its start symbol, or a caller-supplied identifier).
func Grammar(grammarRef, msg string) error {
	return &GrammarError{msg: msg, Grammar: grammarRef}
}

// Grammarf is Grammar with a format string.
func Grammarf(grammarRef, format string, a ...interface{}) error {
	return Grammar(grammarRef, fmt.Sprintf(format, a...))
}

// DisambiguationError is raised by the LR driver (never by GLR, which forks
// instead) when lexical recognition yields more than one surviving
// candidate at a position and none of the disambiguation steps narrows it
// to exactly one.
type DisambiguationError struct {
	msg        string
	Location   string
	Candidates []string
	wrap       error
}

func (e *DisambiguationError) Error() string { return e.msg }
func (e *DisambiguationError) Unwrap() error { return e.wrap }

// Disambiguation returns a new *DisambiguationError for the terminal names
// in candidates, all matching at location.
func Disambiguation(location string, candidates []string) error {
	return &DisambiguationError{
		msg:        fmt.Sprintf("lexical ambiguity at %s: %v all match and none is preferred", location, candidates),
		Location:   location,
		Candidates: candidates,
	}
}

// ParseError is raised when no ACTION applies at (state, position,
// token_ahead), or recognition yields no token while the state requires
// one. It carries every field spec §7 names so an error hook or a caller
// can build a precise message.
type ParseError struct {
	msg string

	Location        string
	SymbolsExpected []string
	TokensAhead     []string
	SymbolsBefore   []string
	LastHeads       []string // GLR only; nil for LR
	Grammar         string

	wrap error
}

func (e *ParseError) Error() string { return e.msg }
func (e *ParseError) Unwrap() error { return e.wrap }

// ParseErrorArgs groups the structured fields of a ParseError so
// constructors don't need a long positional parameter list.
type ParseErrorArgs struct {
	Location        string
	SymbolsExpected []string
	TokensAhead     []string
	SymbolsBefore   []string
	LastHeads       []string
	Grammar         string
}

// Parse returns a new *ParseError from args, with a default Error() message
// built from its fields.
func Parse(args ParseErrorArgs) error {
	expected := util.MakeTextList(append([]string(nil), args.SymbolsExpected...))
	found := util.MakeTextList(append([]string(nil), args.TokensAhead...))
	return &ParseError{
		msg:             fmt.Sprintf("parse error at %s: expected %s, found %s", args.Location, expected, found),
		Location:        args.Location,
		SymbolsExpected: args.SymbolsExpected,
		TokensAhead:     args.TokensAhead,
		SymbolsBefore:   args.SymbolsBefore,
		LastHeads:       args.LastHeads,
		Grammar:         args.Grammar,
	}
}

// Parsef returns a new *ParseError whose Error() is format, with no
// structured fields set; used for parse-time failures that don't fit the
// (state, position, token_ahead) shape (e.g. malformed input streams).
func Parsef(format string, a ...interface{}) error {
	return &ParseError{msg: fmt.Sprintf(format, a...)}
}

// WrapParse is Parsef but wraps cause, reachable via errors.Unwrap.
func WrapParse(cause error, format string, a ...interface{}) error {
	return &ParseError{msg: fmt.Sprintf(format, a...), wrap: cause}
}
