package eval

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity computes the character-level matching-block ratio between the
// two strings, in [0,1]. Semantics follow difflib's SequenceMatcher: twice
// the number of matching characters over the total length.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

// PhraseOverlap is the Jaccard index of the two strings' whitespace-tokenized
// word sets: intersection over union, 0 when either set is empty. Reported as
// a secondary metric only, it never decides correctness.
func PhraseOverlap(a, b string) float64 {
	wordsA := tokenSet(a)
	wordsB := tokenSet(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	union := len(wordsB)
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		} else {
			union++
		}
	}

	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
