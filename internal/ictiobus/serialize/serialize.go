// Package serialize snapshots and reloads automaton.Table values (spec §6
// "Persisted tables": a table is a pure function of (Grammar IR,
// prefer_shifts, prefer_shifts_over_empty, tables_kind), so a reload need
// only preserve the inputs to that function and re-run it -- the reloaded
// table is then guaranteed behaviorally identical to a freshly built one,
// rather than requiring a byte-for-byte re-encoding of the built table's
// internal ACTION/GOTO maps).
//
// Grounded on the teacher's server/dao/sqlite package (sessions.go,
// sqlite.go), which snapshots whole structs to bytes via
// rezi.EncBinary/rezi.DecBinary and round-trips them through storage the
// same way this package round-trips a table through a file or network
// payload.
package serialize

import (
	"fmt"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/ictiobus/internal/ictiobus/automaton"
	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
)

// snapshot is the exact, minimal input to automaton.BuildTable: rebuilding
// from one reproduces a behaviorally identical Table every time. grammar.Grammar
// itself carries unexported fields (it is deliberately opaque outside its own
// package), so it is flattened to grammarDTO first.
type snapshot struct {
	Grammar grammarDTO
	Policy  automaton.Policy
}

// grammarDTO is a fully-exported mirror of grammar.Grammar's state, built and
// unbuilt through the accessor methods grammar.Grammar already exposes
// (Terminals, Term, NonTerminals, Rule, StartSymbol, LayoutSymbol) rather
// than through reflection into its private fields.
type grammarDTO struct {
	Terminals []terminalDTO
	Rules     []grammar.Rule
	Start     string
	Layout    string
}

type terminalDTO struct {
	Name     string
	Priority int
	Prefer   bool
	Dynamic  bool
	Finish   bool
	Keyword  bool
}

func toGrammarDTO(g grammar.Grammar) grammarDTO {
	dto := grammarDTO{Start: g.StartSymbol(), Layout: g.LayoutSymbol()}

	for _, name := range g.Terminals() {
		t := g.Term(name)
		dto.Terminals = append(dto.Terminals, terminalDTO{
			Name:     t.ID(),
			Priority: t.Priority(),
			Prefer:   t.Prefer(),
			Dynamic:  t.Dynamic(),
			Finish:   t.Finish(),
			Keyword:  t.Keyword(),
		})
	}

	for _, nt := range g.NonTerminals() {
		dto.Rules = append(dto.Rules, g.Rule(nt))
	}

	return dto
}

func fromGrammarDTO(dto grammarDTO) grammar.Grammar {
	g := grammar.NewGrammar()

	for _, t := range dto.Terminals {
		term := grammar.NewTerminal(t.Name).Prioritized(t.Priority)
		if t.Prefer {
			term = term.Preferred()
		}
		if t.Dynamic {
			term = term.AsDynamic()
		}
		if t.Finish {
			term = term.AsFinishing()
		}
		if t.Keyword {
			term = term.AsKeyword()
		}
		g.AddTerm(term)
	}

	for _, rule := range dto.Rules {
		for _, prod := range rule.Productions {
			g.AddRule(rule.NonTerminal, prod)
		}
	}

	if dto.Start != "" {
		g.SetStartSymbol(dto.Start)
	}
	if dto.Layout != "" {
		g.SetLayout(dto.Layout)
	}

	return *g
}

// SaveTable encodes tbl's (Grammar, Policy) pair -- the table's entire
// construction input -- to a self-contained byte snapshot.
func SaveTable(tbl *automaton.Table) ([]byte, error) {
	snap := snapshot{Grammar: toGrammarDTO(tbl.Grammar), Policy: tbl.Policy}
	return rezi.EncBinary(snap), nil
}

// LoadTable decodes a snapshot produced by SaveTable and rebuilds the table
// via automaton.BuildTable, so the result is behaviorally identical to the
// table SaveTable was given (spec §6).
func LoadTable(data []byte) (*automaton.Table, error) {
	var snap snapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return nil, fmt.Errorf("REZI decode: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}

	g := fromGrammarDTO(snap.Grammar)
	return automaton.BuildTable(g, snap.Policy)
}
