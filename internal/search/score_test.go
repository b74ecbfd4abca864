package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityExactMatch(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("manzana", "manzana"))
	assert.Equal(t, 1.0, Similarity(Normalize("Plátano"), Normalize("platano")))
}

func TestSimilarityBothEmpty(t *testing.T) {
	// equal strings hit the exact-match branch first, so no division by zero
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarityContainment(t *testing.T) {
	// 0.8 - 0.01 * (13 - 7)
	assert.InDelta(t, 0.74, Similarity("manzana", "manzana verde"), 1e-9)
	// prefix of a one-rune-longer string
	assert.InDelta(t, 0.79, Similarity("manzan", "manzana"), 1e-9)

	score := Similarity("manzana", "manzana verde")
	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 1.0)
}

func TestSimilarityAsymmetric(t *testing.T) {
	// containment direction matters: this asymmetry is intentional
	ab := Similarity("manzana", "manzana verde")
	ba := Similarity("manzana verde", "manzana")
	assert.NotEqual(t, ab, ba)
}

func TestSimilarityEditDistanceFallback(t *testing.T) {
	// "abxxx" vs "abcde": distance 3 over length 5
	assert.InDelta(t, 0.4, Similarity("abcde", "abxxx"), 1e-9)
	// no overlap at all floors at 0
	assert.Equal(t, 0.0, Similarity("zzzzz", "manzana"))
}

func TestSimilarityCountsRunesNotBytes(t *testing.T) {
	// multi-byte runes must not inflate the length delta
	assert.InDelta(t, 0.79, Similarity("platan", "platanó"), 1e-9)
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	assert.Equal(t, 1.0, w.Name)
	assert.Equal(t, 0.8, w.Brand)
	assert.Equal(t, 0.9, w.SearchTerm)
	assert.Equal(t, 0.6, w.Category)
	assert.Equal(t, 0.3, w.MinRelevance)
}
