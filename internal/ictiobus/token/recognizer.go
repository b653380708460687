package token

import "regexp"

// Match is what a Recognizer returns on success: how many bytes of input
// starting at pos it consumed, the semantic value to attach to the
// resulting Token, and any recognizer-specific extra data.
type Match struct {
	Length int
	Value  any
	Extra  any
}

// Kind distinguishes the three recognizer flavors spec §4.3 names, used by
// the specificity step of disambiguation (string beats regex beats custom).
type Kind int

const (
	KindString Kind = iota
	KindRegex
	KindCustom
)

// Recognizer is a pure function of (input, pos): spec §4.3 requires it not
// depend on anything but the input text and position, so that recognition
// results are reproducible and safe to try speculatively across GLR forks.
type Recognizer interface {
	Recognize(input string, pos int) (Match, bool)
	Kind() Kind
}

type recognizerFunc struct {
	fn   func(input string, pos int) (Match, bool)
	kind Kind
}

func (r recognizerFunc) Recognize(input string, pos int) (Match, bool) { return r.fn(input, pos) }
func (r recognizerFunc) Kind() Kind                                    { return r.kind }

// StringRecognizer returns a Recognizer that matches iff input starts with
// literal at pos. The keyword word-boundary check (spec §3/§8) is applied
// by Engine's scan step using the Terminal's Keyword() flag, not here, since it is
// a property of the terminal rather than of the literal-match recognizer.
func StringRecognizer(literal string) Recognizer {
	return recognizerFunc{kind: KindString, fn: func(input string, pos int) (Match, bool) {
		end := pos + len(literal)
		if end > len(input) || input[pos:end] != literal {
			return Match{}, false
		}
		return Match{Length: len(literal), Value: literal}, true
	}}
}

// RegexRecognizer compiles pattern and returns a Recognizer that matches iff
// the regex matches starting exactly at pos; the matched length is the
// length of that match.
func RegexRecognizer(pattern string) (Recognizer, error) {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return nil, err
	}
	return recognizerFunc{kind: KindRegex, fn: func(input string, pos int) (Match, bool) {
		if pos > len(input) {
			return Match{}, false
		}
		loc := re.FindStringIndex(input[pos:])
		if loc == nil {
			return Match{}, false
		}
		matched := input[pos : pos+loc[1]]
		return Match{Length: loc[1], Value: matched}, true
	}}, nil
}

// MustRegexRecognizer is RegexRecognizer but panics on a bad pattern, for
// use in package-level var initializers the way the teacher's lex package
// compiles its pattern table eagerly in AddPattern.
func MustRegexRecognizer(pattern string) Recognizer {
	r, err := RegexRecognizer(pattern)
	if err != nil {
		panic(err.Error())
	}
	return r
}

// CustomRecognizer wraps an arbitrary matching function for non-text input
// streams (spec §4.3's custom recognizer), e.g. a token stream already
// split by an upstream framer where pos indexes records rather than bytes.
func CustomRecognizer(fn func(input string, pos int) (Match, bool)) Recognizer {
	return recognizerFunc{kind: KindCustom, fn: fn}
}
