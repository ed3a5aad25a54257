package vrl

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// bestSuggestion picks the autocomplete entry for the typed city. Entries
// containing the typed text win outright (the first one, as the site orders
// them by relevance); otherwise the most similar entry by Jaro-Winkler is
// chosen. It returns -1 when there are no suggestions.
func bestSuggestion(typed string, suggestions []string) int {
	want := strings.ToLower(strings.TrimSpace(typed))

	for i, s := range suggestions {
		if want != "" && strings.Contains(strings.ToLower(s), want) {
			return i
		}
	}

	best, bestScore := -1, -1.0
	for i, s := range suggestions {
		score := matchr.JaroWinkler(want, strings.ToLower(cleanText(s)), false)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
