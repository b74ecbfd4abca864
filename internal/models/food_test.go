package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFoodCategory(t *testing.T) {
	assert.Equal(t, CategoryFruit, ParseFoodCategory("fruit"))
	assert.Equal(t, CategoryEgg, ParseFoodCategory("egg"))
	// unrecognized input maps to the catch-all
	assert.Equal(t, CategoryOther, ParseFoodCategory("sweets"))
	assert.Equal(t, CategoryOther, ParseFoodCategory(""))
}

func TestParseFoodTag(t *testing.T) {
	tag, ok := ParseFoodTag("gluten-free")
	assert.True(t, ok)
	assert.Equal(t, TagGlutenFree, tag)

	_, ok = ParseFoodTag("keto")
	assert.False(t, ok)
}

func TestFoodTagListContains(t *testing.T) {
	tags := FoodTagList{TagVegan, TagGlutenFree}
	assert.True(t, tags.Contains(TagVegan))
	assert.False(t, tags.Contains(TagLowFat))
	assert.False(t, FoodTagList(nil).Contains(TagVegan))
}

func TestDisplayName(t *testing.T) {
	record := FoodRecord{
		Name:             "Manzana",
		NameTranslations: TranslationMap{"en": "Apple"},
	}
	assert.Equal(t, "Apple", record.DisplayName("en"))
	assert.Equal(t, "Manzana", record.DisplayName("fr"))

	bare := FoodRecord{Name: "Plátano"}
	assert.Equal(t, "Plátano", bare.DisplayName("en"))
}
