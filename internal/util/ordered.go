package util

import (
	"sort"
	"strings"
)

// OrderedKeys returns the keys of m sorted ascending. Used throughout the
// automaton/grammar packages anywhere a map is walked for output that must be
// deterministic (table dumps, dot graphs, trace logs).
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ArticleFor returns "a" or "an" depending on whether s would be read aloud
// starting with a vowel sound. capital controls whether the returned article
// itself is capitalized ("A"/"An").
func ArticleFor(s string, capital bool) string {
	article := "a"
	if len(s) > 0 && isVowelSound(s[0]) {
		article = "an"
	}
	if capital {
		article = strings.ToUpper(article[:1]) + article[1:]
	}
	return article
}

func isVowelSound(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	default:
		return false
	}
}
