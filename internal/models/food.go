package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// FoodCategory is the closed set of catalog categories. Ingestion maps
// free-text source codes into these values; anything unrecognized becomes
// CategoryOther.
type FoodCategory string

const (
	CategoryFruit     FoodCategory = "fruit"
	CategoryVegetable FoodCategory = "vegetable"
	CategoryMeat      FoodCategory = "meat"
	CategoryFish      FoodCategory = "fish"
	CategoryDairy     FoodCategory = "dairy"
	CategoryLegume    FoodCategory = "legume"
	CategoryCereal    FoodCategory = "cereal"
	CategoryNut       FoodCategory = "nut"
	CategoryBeverage  FoodCategory = "beverage"
	CategoryOil       FoodCategory = "oil"
	CategoryEgg       FoodCategory = "egg"
	CategoryOther     FoodCategory = "other"
)

// AllCategories lists every valid category in display order.
var AllCategories = []FoodCategory{
	CategoryFruit, CategoryVegetable, CategoryMeat, CategoryFish,
	CategoryDairy, CategoryLegume, CategoryCereal, CategoryNut,
	CategoryBeverage, CategoryOil, CategoryEgg, CategoryOther,
}

// ParseFoodCategory maps an input string to a FoodCategory. Unrecognized
// input maps to CategoryOther so ingestion never produces an out-of-set value.
func ParseFoodCategory(s string) FoodCategory {
	c := FoodCategory(s)
	for _, known := range AllCategories {
		if c == known {
			return known
		}
	}
	return CategoryOther
}

// FoodTag is the closed set of dietary tags. Unlike categories, unrecognized
// tag input is dropped rather than defaulted.
type FoodTag string

const (
	TagHighProtein FoodTag = "high-protein"
	TagLowFat      FoodTag = "low-fat"
	TagHighFiber   FoodTag = "high-fiber"
	TagLowCalorie  FoodTag = "low-calorie"
	TagVegan       FoodTag = "vegan"
	TagVegetarian  FoodTag = "vegetarian"
	TagGlutenFree  FoodTag = "gluten-free"
	TagLactoseFree FoodTag = "lactose-free"
	TagOrganic     FoodTag = "organic"
	TagProcessed   FoodTag = "processed"
)

// AllTags lists every valid dietary tag.
var AllTags = []FoodTag{
	TagHighProtein, TagLowFat, TagHighFiber, TagLowCalorie,
	TagVegan, TagVegetarian, TagGlutenFree, TagLactoseFree,
	TagOrganic, TagProcessed,
}

// ParseFoodTag maps an input string to a FoodTag. The boolean reports whether
// the input named a known tag.
func ParseFoodTag(s string) (FoodTag, bool) {
	t := FoodTag(s)
	for _, known := range AllTags {
		if t == known {
			return known, true
		}
	}
	return "", false
}

// Micronutrient is a single vitamin or mineral entry. DailyValue is a
// percentage and is optional (absent is not the same as zero).
type Micronutrient struct {
	Name       string   `json:"name"`
	Amount     float64  `json:"amount"`
	Unit       string   `json:"unit"`
	DailyValue *float64 `json:"daily_value,omitempty"`
}

// MicronutrientList stores an ordered micronutrient list as a JSON column.
type MicronutrientList []Micronutrient

// Value implements the driver.Valuer interface
func (l MicronutrientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *MicronutrientList) Scan(value interface{}) error {
	if value == nil {
		*l = MicronutrientList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// FoodTagList stores a tag set as a JSON column. Order is irrelevant and
// duplicates carry no meaning.
type FoodTagList []FoodTag

// Value implements the driver.Valuer interface
func (l FoodTagList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *FoodTagList) Scan(value interface{}) error {
	if value == nil {
		*l = FoodTagList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Contains reports whether tag is present in the list.
func (l FoodTagList) Contains(tag FoodTag) bool {
	for _, t := range l {
		if t == tag {
			return true
		}
	}
	return false
}

// StringList stores an ordered string list as a JSON column.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// TranslationMap stores per-locale name variants as a JSON column, keyed by
// locale code.
type TranslationMap map[string]string

// Value implements the driver.Valuer interface
func (m TranslationMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *TranslationMap) Scan(value interface{}) error {
	if value == nil {
		*m = TranslationMap{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(bytes, m)
}

// FoodRecord is a single nutrition catalog entry. Macro and micro values are
// expressed per ServingSize units of ServingUnit. Optional nutrients are
// pointers so "no data" stays distinguishable from a confirmed zero.
type FoodRecord struct {
	ID               string            `gorm:"primaryKey;size:64" json:"id"`
	Name             string            `gorm:"size:255;not null;index" json:"name"`
	NameTranslations TranslationMap    `gorm:"type:json" json:"name_translations,omitempty"`
	Brand            *string           `gorm:"size:255" json:"brand,omitempty"`
	Category         FoodCategory      `gorm:"size:32;not null;index" json:"category"`
	Tags             FoodTagList       `gorm:"type:json" json:"tags"`
	Calories         float64           `json:"calories"`
	Protein          float64           `json:"protein"`
	Fat              float64           `json:"fat"`
	Carbs            float64           `json:"carbs"`
	Fiber            *float64          `json:"fiber,omitempty"`
	Sugar            *float64          `json:"sugar,omitempty"`
	Vitamins         MicronutrientList `gorm:"type:json" json:"vitamins"`
	Minerals         MicronutrientList `gorm:"type:json" json:"minerals"`
	ServingSize      float64           `gorm:"not null" json:"serving_size"`
	ServingUnit      string            `gorm:"size:32;not null" json:"serving_unit"`
	Barcode          *string           `gorm:"size:64;index" json:"barcode,omitempty"`
	SearchTerms      StringList        `gorm:"type:json" json:"search_terms,omitempty"`
	LastUpdated      *time.Time        `json:"last_updated,omitempty"`
}

// TableName overrides the gorm table name.
func (FoodRecord) TableName() string {
	return "food_records"
}

// DisplayName returns the name variant for the given locale, falling back to
// the canonical Name when no variant exists.
func (r *FoodRecord) DisplayName(locale string) string {
	if r.NameTranslations != nil {
		if name, ok := r.NameTranslations[locale]; ok && name != "" {
			return name
		}
	}
	return r.Name
}
