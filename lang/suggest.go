package lang

import (
	"slices"
	"strconv"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// suggest returns a "did you mean" hint for word among candidates, or ""
// when nothing is close.
//
// Fuzzy matching selects candidates containing word as a subsequence; among
// those the one with the smallest edit distance wins, ties keeping the fuzzy
// ranking.
func suggest(word string, candidates []string) string {
	if best := closest(word, candidates); best != "" {
		return "did you mean " + strconv.Quote(best) + "?"
	}

	return ""
}

func closest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}

	matches := fuzzy.Find(word, candidates)
	if len(matches) == 0 {
		return ""
	}

	slices.SortStableFunc(matches, func(a, b fuzzy.Match) int {
		return levenshtein.ComputeDistance(word, a.Str) -
			levenshtein.ComputeDistance(word, b.Str)
	})

	return matches[0].Str
}
