package ingest

import (
	"strings"

	"github.com/mealtrack/catalog-backend/internal/models"
)

// categoryCodes maps source catalog category codes to the closed category
// set. The upstream catalog uses Spanish codes; canonical identifiers are
// accepted too via ParseFoodCategory.
var categoryCodes = map[string]models.FoodCategory{
	"frutas":       models.CategoryFruit,
	"verduras":     models.CategoryVegetable,
	"carnes":       models.CategoryMeat,
	"pescados":     models.CategoryFish,
	"lacteos":      models.CategoryDairy,
	"legumbres":    models.CategoryLegume,
	"cereales":     models.CategoryCereal,
	"frutos-secos": models.CategoryNut,
	"bebidas":      models.CategoryBeverage,
	"aceites":      models.CategoryOil,
	"huevos":       models.CategoryEgg,
	"otros":        models.CategoryOther,
}

// tagCodes maps source dietary tag codes to the closed tag set.
var tagCodes = map[string]models.FoodTag{
	"alto-proteinas": models.TagHighProtein,
	"bajo-grasas":    models.TagLowFat,
	"alto-fibra":     models.TagHighFiber,
	"bajo-calorias":  models.TagLowCalorie,
	"vegano":         models.TagVegan,
	"vegetariano":    models.TagVegetarian,
	"sin-gluten":     models.TagGlutenFree,
	"sin-lactosa":    models.TagLactoseFree,
	"ecologico":      models.TagOrganic,
	"procesado":      models.TagProcessed,
}

// MapCategoryCode resolves a source category code to a FoodCategory. Every
// input has a defined result: unmapped codes become CategoryOther.
func MapCategoryCode(code string) models.FoodCategory {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if category, ok := categoryCodes[normalized]; ok {
		return category
	}
	return models.ParseFoodCategory(normalized)
}

// MapTagCode resolves a source tag code to a FoodTag. Unmapped codes are
// dropped by the caller: the boolean reports whether the code was known.
func MapTagCode(code string) (models.FoodTag, bool) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if tag, ok := tagCodes[normalized]; ok {
		return tag, true
	}
	return models.ParseFoodTag(normalized)
}
