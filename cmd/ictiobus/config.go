package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/internal/ictiobus/token"
)

// grammarConfig is the TOML-encoded grammar IR cmd/ictiobus reads from a
// file (spec.md §6 "compile (emit tables from grammar file)" -- the concrete
// grammar file syntax is explicitly out of scope for the core, so this
// struct is this CLI's own invention, grounded on the teacher's tqw package
// loading a TOML-based world-data format the same way: a single
// toml.Unmarshal into a plain struct, no custom parser).
type grammarConfig struct {
	Start     string           `toml:"start"`
	Layout    string           `toml:"layout"`
	Whitespace string          `toml:"whitespace"`
	Terminals []terminalConfig `toml:"terminals"`
	Rules     []ruleConfig     `toml:"rules"`
}

type terminalConfig struct {
	Name     string `toml:"name"`
	Pattern  string `toml:"pattern"` // "literal:<text>" or "regex:<pattern>"
	Priority int    `toml:"priority"`
	Prefer   bool   `toml:"prefer"`
	Dynamic  bool   `toml:"dynamic"`
	Finish   bool   `toml:"finish"`
	Keyword  bool   `toml:"keyword"`
}

type ruleConfig struct {
	NonTerminal string             `toml:"nonterminal"`
	Productions []productionConfig `toml:"productions"`
}

type productionConfig struct {
	Symbols  []string `toml:"symbols"`
	Action   string   `toml:"action"`
	Priority int      `toml:"priority"`
	Assoc    string   `toml:"assoc"` // "left", "right", "none" (default)
	Dynamic  bool     `toml:"dynamic"`
}

// loadGrammarConfig reads and parses a TOML grammar-config file.
func loadGrammarConfig(path string) (grammarConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grammarConfig{}, fmt.Errorf("read grammar config: %w", err)
	}

	var cfg grammarConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return grammarConfig{}, fmt.Errorf("parse grammar config: %w", err)
	}
	return cfg, nil
}

// buildGrammar turns a parsed grammarConfig into a grammar.Grammar, leaving
// each production's bound action name in its Meta["action"] entry for
// lr.CallActions/forest-walking code to look up later.
func buildGrammar(cfg grammarConfig) (grammar.Grammar, error) {
	g := grammar.NewGrammar()

	for _, t := range cfg.Terminals {
		if t.Name == "" {
			return grammar.Grammar{}, fmt.Errorf("terminal config missing name")
		}
		term := grammar.NewTerminal(t.Name)
		if t.Priority != 0 {
			term = term.Prioritized(t.Priority)
		}
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

	for _, r := range cfg.Rules {
		if r.NonTerminal == "" {
			return grammar.Grammar{}, fmt.Errorf("rule config missing nonterminal")
		}
		for _, p := range r.Productions {
			prod := grammar.NewProduction(p.Symbols...)
			if p.Priority != 0 {
				prod.Priority = p.Priority
			}
			prod.Assoc = parseAssoc(p.Assoc)
			prod.Dynamic = p.Dynamic
			if p.Action != "" {
				prod.Meta = map[string]any{"action": p.Action}
			}
			g.AddRule(r.NonTerminal, prod)
		}
	}

	if cfg.Start != "" {
		g.SetStartSymbol(cfg.Start)
	}
	if cfg.Layout != "" {
		g.SetLayout(cfg.Layout)
	}

	return *g, nil
}

func parseAssoc(s string) grammar.Associativity {
	switch s {
	case "left":
		return grammar.AssocLeft
	case "right":
		return grammar.AssocRight
	default:
		return grammar.AssocNone
	}
}

// buildEngine wires a token.Engine from the same config's terminal
// definitions: "literal:<text>" becomes a token.StringRecognizer,
// "regex:<pattern>" a token.RegexRecognizer.
func buildEngine(g grammar.Grammar, cfg grammarConfig) (*token.Engine, error) {
	e := token.NewEngine(g)
	if cfg.Whitespace != "" {
		e.SetWhitespace(cfg.Whitespace)
	}

	for _, t := range cfg.Terminals {
		rec, err := parseRecognizerPattern(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf("terminal %q: %w", t.Name, err)
		}
		e.Register(t.Name, rec)
	}
	return e, nil
}

func parseRecognizerPattern(pattern string) (token.Recognizer, error) {
	switch {
	case len(pattern) > len("literal:") && pattern[:len("literal:")] == "literal:":
		return token.StringRecognizer(pattern[len("literal:"):]), nil
	case len(pattern) > len("regex:") && pattern[:len("regex:")] == "regex:":
		return token.RegexRecognizer(pattern[len("regex:"):])
	default:
		return nil, fmt.Errorf("pattern %q must start with \"literal:\" or \"regex:\"", pattern)
	}
}
