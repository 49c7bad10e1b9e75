// Package stringutil provides string normalization and fuzzy matching
// utilities used for faculty lookups and admission section matching.
package stringutil

import "strings"

// Normalize lowercases a string and collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TrigramSimilarity computes the trigram similarity between two strings,
// matching the semantics of PostgreSQL's pg_trgm similarity(): the size of
// the intersection of the two trigram sets divided by the size of the union.
// Strings are normalized and padded with two leading and one trailing space
// per word before trigram extraction. Returns a value in [0,1].
func TrigramSimilarity(a, b string) float64 {
	ta := trigramSet(a)
	tb := trigramSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for t := range ta {
		if tb[t] {
			intersection++
		}
	}

	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// trigramSet extracts the set of trigrams from a string.
// Each word is padded as "  word " so word boundaries contribute trigrams,
// the same convention pg_trgm uses.
func trigramSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			set[string(runes[i:i+3])] = true
		}
	}
	return set
}

// Ratio computes a similarity ratio between two strings on a 0-100 scale,
// based on Levenshtein edit distance over the normalized forms:
//
//	ratio = 100 * (lenA + lenB - 2*distance) / (lenA + lenB)
//
// Identical strings score 100, completely disjoint strings score near 0.
func Ratio(a, b string) int {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" && nb == "" {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}

	ra := []rune(na)
	rb := []rune(nb)
	dist := levenshtein(ra, rb)
	total := len(ra) + len(rb)
	score := (total - 2*dist) * 100 / total
	if score < 0 {
		return 0
	}
	return score
}

// levenshtein computes the edit distance between two rune slices
// using a single-row dynamic programming table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr := make([]int, len(b)+1)
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev = curr
	}

	return prev[len(b)]
}
