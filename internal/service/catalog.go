// Package service coordinates the catalog store, the ingestion path, and
// the search engine behind the HTTP surface.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mealtrack/catalog-backend/internal/ingest"
	"github.com/mealtrack/catalog-backend/internal/models"
	"github.com/mealtrack/catalog-backend/internal/search"
	"github.com/mealtrack/catalog-backend/internal/store"
)

// DefaultSearchLimit caps search responses when the caller does not ask for
// a specific limit. The engine itself returns the full ranked list; the cap
// is a presentation concern applied here.
const DefaultSearchLimit = 100

// ErrFoodNotFound is returned when a lookup by id names no stored record.
var ErrFoodNotFound = errors.New("food not found")

// SearchOptions tunes a single search call.
type SearchOptions struct {
	// Limit caps the ranked result list; <= 0 means DefaultSearchLimit.
	Limit int
	// MinRelevance overrides the engine's inclusion threshold when non-nil.
	MinRelevance *float64
}

// CatalogService owns the catalog lifecycle. Refresh runs the
// init→clear→putAll sequence under a single mutex: concurrent refreshes are
// not supported by the store itself, so this service is the required
// external serialization point.
type CatalogService struct {
	store     *store.CatalogStore
	weights   search.Weights
	refreshMu sync.Mutex
}

// NewCatalogService creates a CatalogService over the given store using the
// given scoring weights.
func NewCatalogService(st *store.CatalogStore, weights search.Weights) *CatalogService {
	return &CatalogService{store: st, weights: weights}
}

// Refresh replaces the whole catalog from src: parse, then clear-then-reload.
// Per-row parse failures are aggregated in the returned summary, not fatal.
// Records that fail to store are folded into the summary as skipped rows.
func (s *CatalogService) Refresh(ctx context.Context, src ingest.Source) (ingest.Summary, error) {
	r, err := src.Open(ctx)
	if err != nil {
		return ingest.Summary{}, fmt.Errorf("failed to open catalog source %s: %w", src.Name(), err)
	}
	defer r.Close()

	records, summary, err := ingest.ParseCatalog(r)
	if err != nil {
		return summary, fmt.Errorf("failed to parse catalog source %s: %w", src.Name(), err)
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if err := s.store.Init(ctx); err != nil {
		return summary, err
	}
	if err := s.store.Clear(ctx); err != nil {
		return summary, err
	}
	result, err := s.store.PutAll(ctx, records)
	if err != nil {
		return summary, err
	}
	for _, failure := range result.Failed {
		summary.Imported--
		summary.Skipped++
		summary.Errors = append(summary.Errors, ingest.RowError{
			Err: fmt.Errorf("failed to store record %s: %w", failure.ID, failure.Err),
		})
	}

	log.Printf("[CatalogService] Refreshed catalog from %s: %d stored, %d skipped", src.Name(), result.Stored, summary.Skipped)
	return summary, nil
}

// Search takes one point-in-time snapshot of the catalog and ranks it
// against filters. The snapshot keeps results consistent even if a refresh
// lands mid-search.
func (s *CatalogService) Search(ctx context.Context, filters search.Filters, opts SearchOptions) ([]search.Result, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	weights := s.weights
	if opts.MinRelevance != nil {
		weights.MinRelevance = *opts.MinRelevance
	}
	results := search.NewEngine(weights).Search(records, filters)

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// SimilarFoods suggests up to limit records sharing the target's category,
// ranked by name similarity.
func (s *CatalogService) SimilarFoods(ctx context.Context, id string, limit int) ([]search.Result, error) {
	target, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrFoodNotFound
	}
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	return search.NewEngine(s.weights).SimilarFoods(target, records, limit), nil
}

// Lookup returns the record with the given id or ErrFoodNotFound.
func (s *CatalogService) Lookup(ctx context.Context, id string) (*models.FoodRecord, error) {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrFoodNotFound
	}
	return record, nil
}

// LookupBarcode returns the first record with the given barcode or
// ErrFoodNotFound.
func (s *CatalogService) LookupBarcode(ctx context.Context, barcode string) (*models.FoodRecord, error) {
	record, err := s.store.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrFoodNotFound
	}
	return record, nil
}

// Browse lists the catalog, optionally restricted to one category.
func (s *CatalogService) Browse(ctx context.Context, category *models.FoodCategory) ([]models.FoodRecord, error) {
	if category != nil {
		return s.store.GetByCategory(ctx, *category)
	}
	return s.store.GetAll(ctx)
}

// Count returns the number of stored records.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
