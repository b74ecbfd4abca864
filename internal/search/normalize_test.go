package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLowercasesAndStripsDiacritics(t *testing.T) {
	assert.Equal(t, "manzana", Normalize("MANZANA"))
	assert.Equal(t, "platano", Normalize("Plátano"))
	assert.Equal(t, "proteina", Normalize("proteína"))
	assert.Equal(t, "creme brulee", Normalize("Crème Brûlée"))
	assert.Equal(t, "", Normalize(""))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Plátano", "proteína", "MANZANA verde", "açaí", "", "123 g"}
	for _, s := range inputs {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "normalize should be idempotent for %q", s)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	assert.Equal(t, Normalize("Azúcar Morena"), Normalize("Azúcar Morena"))
}
