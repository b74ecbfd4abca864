package search

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Weights holds the per-field scoring weights and the inclusion threshold.
// The values are empirically tuned, not principled; they are carried here as
// data so callers can re-tune without touching the engine.
type Weights struct {
	Name         float64
	Brand        float64
	SearchTerm   float64
	Category     float64
	MinRelevance float64
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		Name:         1.0,
		Brand:        0.8,
		SearchTerm:   0.9,
		Category:     0.6,
		MinRelevance: 0.3,
	}
}

// Similarity scores two already-normalized strings in [0, 1].
//
// Exact equality scores 1.0. If b contains a as a substring the score is
// 0.8 - 0.01*(len(b)-len(a)), so a short string containing the query beats a
// long one containing it. Otherwise the score falls back to Levenshtein
// distance scaled by the longer length, floored at 0.
//
// The containment branch makes this deliberately asymmetric:
// Similarity("manzana", "manzana verde") != Similarity("manzana verde", "manzana").
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)

	if strings.Contains(b, a) {
		return 0.8 - 0.01*float64(lb-la)
	}

	longest := la
	if lb > longest {
		longest = lb
	}
	// a == b already handled, so longest > 0 here
	dist := levenshtein.ComputeDistance(a, b)
	score := 1.0 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
