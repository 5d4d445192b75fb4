// Package similarity scores extracted document texts for near-duplicate
// detection using Jaccard overlap of their token sets.
package similarity

import "strings"

// DuplicateThreshold is the Jaccard score above which two documents are
// treated as duplicates of each other.
const DuplicateThreshold = 0.85

// Jaccard returns the set overlap of the lowercased whitespace tokens of a
// and b, in [0, 1]. Two empty texts score 0.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// IsDuplicate reports whether two texts exceed the duplicate threshold.
func IsDuplicate(a, b string) bool {
	return Jaccard(a, b) > DuplicateThreshold
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
