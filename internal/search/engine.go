package search

import (
	"sort"
	"strings"

	"github.com/mealtrack/catalog-backend/internal/models"
)

// Filters is a search query specification. An empty Categories slice means
// no category restriction; Tags is an AND filter, every listed tag must be
// present on a record for it to match.
type Filters struct {
	Query      string                `json:"query"`
	Categories []models.FoodCategory `json:"categories"`
	Tags       []models.FoodTag      `json:"tags"`
}

// Result pairs a matched record with its relevance score in [0, 1].
// Item points into the caller's record slice; it is not a copy.
type Result struct {
	Item      *models.FoodRecord `json:"item"`
	Relevance float64            `json:"relevance"`
}

// Engine ranks food records against filters. It is stateless apart from its
// weights and safe for concurrent use.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine with the given weights.
func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Search returns the records matching filters, ranked by relevance
// descending. With an empty (or blank) query every record surviving the
// category/tag filter is returned with relevance 1 in catalog order. The
// full ranked list is returned; truncating to a display limit is the
// caller's concern.
func (e *Engine) Search(records []models.FoodRecord, filters Filters) []Result {
	query := Normalize(strings.TrimSpace(filters.Query))

	var results []Result
	for i := range records {
		record := &records[i]
		if !matchesFilters(record, filters) {
			continue
		}
		if query == "" {
			results = append(results, Result{Item: record, Relevance: 1})
			continue
		}
		relevance := e.score(query, record)
		if relevance >= e.weights.MinRelevance {
			results = append(results, Result{Item: record, Relevance: relevance})
		}
	}

	if query != "" {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Relevance > results[j].Relevance
		})
	}
	return results
}

// SimilarFoods returns up to limit records sharing target's category, ranked
// by name similarity to target. The target itself is excluded by id.
func (e *Engine) SimilarFoods(target *models.FoodRecord, records []models.FoodRecord, limit int) []Result {
	targetName := Normalize(target.Name)

	var results []Result
	for i := range records {
		record := &records[i]
		if record.ID == target.ID || record.Category != target.Category {
			continue
		}
		results = append(results, Result{
			Item:      record,
			Relevance: Similarity(targetName, Normalize(record.Name)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score computes the record's relevance as the maximum weighted field score:
// a record matches as well as its single best-matching field.
func (e *Engine) score(query string, record *models.FoodRecord) float64 {
	best := Similarity(query, Normalize(record.Name)) * e.weights.Name

	if record.Brand != nil && *record.Brand != "" {
		if s := Similarity(query, Normalize(*record.Brand)) * e.weights.Brand; s > best {
			best = s
		}
	}

	for _, term := range record.SearchTerms {
		if s := Similarity(query, Normalize(term)) * e.weights.SearchTerm; s > best {
			best = s
		}
	}

	if s := Similarity(query, Normalize(string(record.Category))) * e.weights.Category; s > best {
		best = s
	}

	return best
}

// matchesFilters applies the hard category/tag filter. Unrecognized filter
// values simply fail to match; they never error.
func matchesFilters(record *models.FoodRecord, filters Filters) bool {
	if len(filters.Categories) > 0 {
		found := false
		for _, c := range filters.Categories {
			if record.Category == c {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, tag := range filters.Tags {
		if !record.Tags.Contains(tag) {
			return false
		}
	}
	return true
}
