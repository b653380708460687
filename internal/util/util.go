package util

import "strings"

// MakeTextList joins items into a comma-separated, Oxford-comma'd English
// list ("a, b, and c") for use in diagnostic messages such as
// ierrors.ParseError's "expected X, found Y" text. It mutates the last
// element of items in place, so callers that still need the original slice
// (e.g. ParseError's SymbolsExpected/TokensAhead fields) must pass a copy.
//
// TODO: turn this into a generic function that accepts displayable OR ~string
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}

	output := ""

	if len(items) == 1 {
		output += items[0]
	} else if len(items) == 2 {
		output += items[0] + " and " + items[1]
	} else {
		// if its more than two, use an oxford comma
		items[len(items)-1] = "and " + items[len(items)-1]
		output += strings.Join(items, ", ")
	}

	return output
}
