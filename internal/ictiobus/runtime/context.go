// Package runtime holds the parts of the engine that run during a parse
// rather than during table construction: the context record passed to user
// actions (spec §6), a concrete parse tree type for the LR driver's
// tree-building mode, and the standard action library spec §6 names by
// identifier (none, nochange, empty, single, inner, collect(_sep)(_optional),
// their right-recursive mirrors, optional, obj).
package runtime

import (
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// Context is the record spec §6 exposes to every user action, recognizer
// hook, dynamic disambiguation filter, and error hook: every read-only field
// the spec names, plus a mutable Extra scratchpad carried through the whole
// parse. Fields not meaningful at a given call site are left at their zero
// value -- e.g. Production is nil except when invoked from a reduce, Head
// is "" outside GLR.
type Context struct {
	Input         string
	FileName      string
	StartPosition int
	EndPosition   int
	LayoutContent string

	// Token is set when the context is constructed around a shift.
	Token *token.Token

	// TokenAhead is the not-yet-consumed lookahead token, when known.
	TokenAhead *token.Token

	// Production is set when the context is constructed around a reduce.
	Production *grammar.Production

	Symbol string
	State  string

	// Parser identifies the run this context belongs to -- a glr.Parser run
	// ID (see glr package) so concurrent parses sharing one Table can be
	// told apart in logs, empty for lr.Parser.
	Parser string

	// Node is set only when walking a previously-built tree (re-running
	// actions over a chosen parse, e.g. one materialized by forest.Forest.Tree).
	Node any

	// Head identifies the GSS head driving this context; empty outside GLR.
	Head string

	// Extra is a mutable scratchpad an action may read and write; it is the
	// same map instance for the lifetime of one parse.
	Extra map[string]any
}

// NewContext returns a Context with Extra initialized to an empty, non-nil
// map, so actions never need a nil check before writing to it.
func NewContext(input string) Context {
	return Context{Input: input, Extra: make(map[string]any)}
}
