package token

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"

	"github.com/dekarrin/ictiobus/internal/ictiobus/grammar"
)

// LayoutMatcher consumes layout (whitespace/comments) starting at pos and
// reports how many bytes it consumed. Engine never implements this itself:
// when a grammar defines LAYOUT, the lr package builds one from a nested
// parser over the LAYOUT sub-grammar (spec §6 "Layout parser") and installs
// it with SetLayout; that keeps this package free of any dependency on the
// LR driver it is itself a dependency of.
type LayoutMatcher func(input string, pos int) (consumed int, ok bool)

// HookContext is the narrowed view of the parse-time context record (spec
// §6's full Context is assembled by the driver once a production/state is
// known) available to a CustomHook at the moment of token recognition.
type HookContext struct {
	FileName string
	State    string
	Pos      int
}

// CustomHook is the single override point for both token recognition and
// lexical disambiguation (spec §4.3). next runs the engine's default
// recognition-and-disambiguation procedure; a hook may call it, ignore it,
// or augment its result.
type CustomHook func(ctx HookContext, input string, pos int, acceptable []string, next func() ([]Candidate, error)) ([]Candidate, error)

// Engine performs scannerless, state-contextual token recognition: given
// the terminals acceptable in the current LR state, it queries each
// terminal's registered Recognizer at the current position, filters
// keyword matches by word boundary, and disambiguates the survivors.
type Engine struct {
	g           grammar.Grammar
	recognizers map[string]Recognizer
	layout      LayoutMatcher
	whitespace  string
	hook        CustomHook
}

// NewEngine returns an Engine for g with the default whitespace layout set
// (space, tab, CR, LF), used only when g has no LAYOUT non-terminal.
func NewEngine(g grammar.Grammar) *Engine {
	return &Engine{
		g:           g,
		recognizers: make(map[string]Recognizer),
		whitespace:  " \t\r\n",
	}
}

// Register binds a Recognizer to the terminal name term. Recognition for a
// terminal with no registered Recognizer always fails.
func (e *Engine) Register(term string, r Recognizer) {
	e.recognizers[term] = r
}

// Recognizer returns the Recognizer registered for term, if any. Used by
// the lr package to share one Engine's recognizer set with the nested
// layout sub-parser's own Engine, instead of re-registering every terminal
// twice.
func (e *Engine) Recognizer(term string) (Recognizer, bool) {
	r, ok := e.recognizers[term]
	return r, ok
}

// SetLayout installs the nested-parser layout matcher used when the
// grammar defines LAYOUT. Leaving it unset falls back to consuming runs of
// the configured whitespace set.
func (e *Engine) SetLayout(m LayoutMatcher) {
	e.layout = m
}

// SetWhitespace overrides the fallback whitespace set consumed between
// tokens when the grammar has no LAYOUT non-terminal.
func (e *Engine) SetWhitespace(ws string) {
	e.whitespace = ws
}

// SetCustomHook installs the single override point for recognition and
// disambiguation (spec §4.3).
func (e *Engine) SetCustomHook(h CustomHook) {
	e.hook = h
}

// MatchLayout consumes layout at pos and returns the consumed span along
// with the new position.
func (e *Engine) MatchLayout(input string, pos int) (layoutContent string, newPos int) {
	if e.layout != nil {
		n, ok := e.layout(input, pos)
		if ok && n > 0 {
			return input[pos : pos+n], pos + n
		}
		return "", pos
	}

	start := pos
	for pos < len(input) && indexByte(e.whitespace, input[pos]) >= 0 {
		pos++
	}
	return input[start:pos], pos
}

func indexByte(set string, b byte) int {
	for i := 0; i < len(set); i++ {
		if set[i] == b {
			return i
		}
	}
	return -1
}

// Recognize matches layout then every acceptable terminal's recognizer at
// the resulting position, returning the disambiguated candidate list (spec
// §4.3). An empty, non-nil result with a nil error means no terminal
// matched; the caller (lr/glr driver) turns that into a ParseError.
func (e *Engine) Recognize(ctx HookContext, input string, pos int, acceptable []string) (layoutContent string, pos2 int, cands []Candidate, err error) {
	layoutContent, pos2 = e.MatchLayout(input, pos)
	ctx.Pos = pos2

	scan := func() ([]Candidate, error) {
		return e.scan(input, pos2, acceptable)
	}

	if e.hook != nil {
		cands, err = e.hook(ctx, input, pos2, acceptable, scan)
	} else {
		cands, err = scan()
	}
	return layoutContent, pos2, Resolve(cands), err
}

func (e *Engine) scan(input string, pos int, acceptable []string) ([]Candidate, error) {
	var out []Candidate

	for _, name := range acceptable {
		if !e.g.IsTerminal(name) {
			continue
		}
		term := e.g.Term(name)
		rec, ok := e.recognizers[name]
		if !ok {
			continue
		}

		m, matched := rec.Recognize(input, pos)
		if !matched {
			continue
		}

		if term.Keyword() && !wordBoundaryOK(input, pos+m.Length) {
			continue
		}

		out = append(out, Candidate{
			Token: Token{
				Terminal: name,
				Lexeme:   input[pos : pos+m.Length],
				Value:    m.Value,
				Pos:      pos,
			},
			Priority: term.Priority(),
			Prefer:   term.Prefer(),
			Kind:     rec.Kind(),
		})

		if term.Finish() {
			break
		}
	}

	return out, nil
}

var wordLetters = runes.In(unicode.L)
var wordDigits = runes.In(unicode.Nd)

func isWordRune(r rune) bool {
	return r == '_' || wordLetters.Contains(r) || wordDigits.Contains(r)
}

// wordBoundaryOK reports whether the byte at idx in input (if any) is a
// non-word rune, as spec §3/§8's keyword boundary rule requires.
func wordBoundaryOK(input string, idx int) bool {
	if idx >= len(input) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(input[idx:])
	return !isWordRune(r)
}
