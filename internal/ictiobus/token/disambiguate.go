package token

// Candidate is one surviving lexical match at a position, carrying the
// Terminal metadata (spec §3) the disambiguation pipeline needs to rank it
// against its siblings.
type Candidate struct {
	Token    Token
	Priority int
	Prefer   bool
	Kind     Kind
}

// Resolve applies the spec §4.3 lexical disambiguation pipeline to cands in
// order -- highest priority, then most specific recognizer kind, then
// longest match, then prefer -- stopping as soon as one candidate survives
// a step. The final slice may still have more than one element: exactly one
// means an unambiguous token, zero means cands was empty, and more than one
// is a disambiguation failure for the LR driver or a fork point for GLR.
func Resolve(cands []Candidate) []Candidate {
	if len(cands) <= 1 {
		return cands
	}
	cands = keepHighestPriority(cands)
	if len(cands) <= 1 {
		return cands
	}
	cands = keepMostSpecific(cands)
	if len(cands) <= 1 {
		return cands
	}
	cands = keepLongest(cands)
	if len(cands) <= 1 {
		return cands
	}
	return keepPreferred(cands)
}

func keepHighestPriority(cands []Candidate) []Candidate {
	best := cands[0].Priority
	for _, c := range cands[1:] {
		if c.Priority > best {
			best = c.Priority
		}
	}
	var out []Candidate
	for _, c := range cands {
		if c.Priority == best {
			out = append(out, c)
		}
	}
	return out
}

// keepMostSpecific keeps the lowest Kind value (KindString < KindRegex <
// KindCustom), i.e. string recognizers are considered more specific than
// regex ones, per spec §4.3 step 2.
func keepMostSpecific(cands []Candidate) []Candidate {
	best := cands[0].Kind
	for _, c := range cands[1:] {
		if c.Kind < best {
			best = c.Kind
		}
	}
	var out []Candidate
	for _, c := range cands {
		if c.Kind == best {
			out = append(out, c)
		}
	}
	return out
}

func keepLongest(cands []Candidate) []Candidate {
	best := len(cands[0].Token.Lexeme)
	for _, c := range cands[1:] {
		if l := len(c.Token.Lexeme); l > best {
			best = l
		}
	}
	var out []Candidate
	for _, c := range cands {
		if len(c.Token.Lexeme) == best {
			out = append(out, c)
		}
	}
	return out
}

func keepPreferred(cands []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Prefer {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		// spec §4.3 step 4: "if any terminal has prefer, keep only those" --
		// none preferred means this step does not narrow the set at all.
		return cands
	}
	return out
}
