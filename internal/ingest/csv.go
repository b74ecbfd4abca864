// Package ingest loads the food catalog from its delimited-text source. A
// header row names the columns; malformed rows are skipped and counted, and
// one bad row never aborts the whole load. Source category and tag codes map
// through fixed tables into the closed enumerations.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealtrack/catalog-backend/internal/models"
)

// RowError is a per-row ingestion failure. The row is skipped; the load
// continues.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Summary aggregates an ingestion run. Errors holds one entry per skipped
// row so the caller can surface what was dropped.
type Summary struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// ParseCatalog reads the delimited catalog source and returns the records it
// could decode plus a summary of what it could not. The returned error is
// non-nil only when the source itself is unusable (unreadable, or missing a
// header row).
func ParseCatalog(r io.Reader) ([]models.FoodRecord, Summary, error) {
	var summary Summary

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows are validated per-column below

	header, err := reader.Read()
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read header row: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, summary, fmt.Errorf("header row has no name column")
	}

	var records []models.FoodRecord
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, RowError{Line: line, Err: err})
			continue
		}

		record, err := parseRow(columns, row)
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, RowError{Line: line, Err: err})
			continue
		}
		records = append(records, *record)
		summary.Imported++
	}

	return records, summary, nil
}

func parseRow(columns map[string]int, row []string) (*models.FoodRecord, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := cell("name")
	if name == "" {
		return nil, fmt.Errorf("missing name")
	}

	record := &models.FoodRecord{
		ID:       cell("id"),
		Name:     name,
		Category: MapCategoryCode(cell("category")),
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	// name_xx columns carry per-locale variants
	for column, i := range columns {
		if locale, ok := strings.CutPrefix(column, "name_"); ok && i < len(row) {
			if variant := strings.TrimSpace(row[i]); variant != "" {
				if record.NameTranslations == nil {
					record.NameTranslations = models.TranslationMap{}
				}
				record.NameTranslations[locale] = variant
			}
		}
	}

	if brand := cell("brand"); brand != "" {
		record.Brand = &brand
	}
	if barcode := cell("barcode"); barcode != "" {
		record.Barcode = &barcode
	}

	for _, code := range parseListCell(cell("tags")) {
		if tag, ok := MapTagCode(code); ok {
			record.Tags = append(record.Tags, tag)
		}
	}
	record.SearchTerms = models.StringList(parseListCell(cell("search_terms")))

	var err error
	if record.Calories, err = parseMacro(cell("calories")); err != nil {
		return nil, fmt.Errorf("calories: %w", err)
	}
	if record.Protein, err = parseMacro(cell("protein")); err != nil {
		return nil, fmt.Errorf("protein: %w", err)
	}
	if record.Fat, err = parseMacro(cell("fat")); err != nil {
		return nil, fmt.Errorf("fat: %w", err)
	}
	if record.Carbs, err = parseMacro(cell("carbs")); err != nil {
		return nil, fmt.Errorf("carbs: %w", err)
	}
	if record.Fiber, err = parseOptionalMacro(cell("fiber")); err != nil {
		return nil, fmt.Errorf("fiber: %w", err)
	}
	if record.Sugar, err = parseOptionalMacro(cell("sugar")); err != nil {
		return nil, fmt.Errorf("sugar: %w", err)
	}

	// reference quantity defaults to 100 g when the source omits it
	record.ServingSize = 100
	record.ServingUnit = "g"
	if raw := cell("serving_size"); raw != "" {
		size, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("serving_size: %w", err)
		}
		if size <= 0 {
			return nil, fmt.Errorf("serving_size must be positive, got %v", size)
		}
		record.ServingSize = size
	}
	if unit := cell("serving_unit"); unit != "" {
		record.ServingUnit = unit
	}

	if record.Vitamins, err = parseMicronutrients(cell("vitamins")); err != nil {
		return nil, fmt.Errorf("vitamins: %w", err)
	}
	if record.Minerals, err = parseMicronutrients(cell("minerals")); err != nil {
		return nil, fmt.Errorf("minerals: %w", err)
	}

	if raw := cell("last_updated"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("last_updated: %w", err)
		}
		record.LastUpdated = &ts
	}

	return record, nil
}

// parseMacro parses a required per-serving value. An empty cell is a
// confirmed zero; negative values are rejected.
func parseMacro(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %v", v)
	}
	return v, nil
}

// parseOptionalMacro parses an optional per-serving value. An empty cell
// means "no data", which is distinct from zero.
func parseOptionalMacro(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parseMacro(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseListCell splits a bracketed/quoted list cell, e.g.
// "[vegano, sin-gluten]" or "'manzana';'apple'".
func parseListCell(raw string) []string {
	raw = strings.Trim(raw, "[]")
	if raw == "" {
		return nil
	}
	split := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	var items []string
	for _, item := range split {
		item = strings.Trim(strings.TrimSpace(item), `"'`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseMicronutrients(raw string) (models.MicronutrientList, error) {
	if raw == "" {
		return nil, nil
	}
	var list models.MicronutrientList
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
