package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealtrack/catalog-backend/internal/ingest"
	"github.com/mealtrack/catalog-backend/internal/models"
	"github.com/mealtrack/catalog-backend/internal/search"
	"github.com/mealtrack/catalog-backend/internal/store"
)

const testCatalogCSV = `id,name,category,tags,calories
1,Manzana,frutas,[],52
2,Plátano,frutas,[bajo-calorias],89
3,Pechuga de pollo,carnes,[alto-proteinas],165
`

func newTestCatalog(t *testing.T) *CatalogService {
	t.Helper()
	st := store.New(":memory:")
	t.Cleanup(func() { st.Close() })

	svc := NewCatalogService(st, search.DefaultWeights())

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogCSV), 0o644))

	summary, err := svc.Refresh(context.Background(), ingest.FileSource{Path: path})
	require.NoError(t, err)
	require.Equal(t, 3, summary.Imported)
	require.Equal(t, 0, summary.Skipped)
	return svc
}

func TestRefreshReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// a second refresh with a smaller source must not leave stale entries
	path := filepath.Join(t.TempDir(), "small.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name,category\n9,Tofu,legumbres\n"), 0o644))
	summary, err := svc.Refresh(ctx, ingest.FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)

	count, err = svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = svc.Lookup(ctx, "1")
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestSearchByQuery(t *testing.T) {
	svc := newTestCatalog(t)

	results, err := svc.Search(context.Background(), search.Filters{Query: "manzan"}, SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "1", results[0].Item.ID)
	assert.GreaterOrEqual(t, results[0].Relevance, 0.3)
}

func TestSearchByCategoryAndTag(t *testing.T) {
	svc := newTestCatalog(t)

	results, err := svc.Search(context.Background(), search.Filters{
		Categories: []models.FoodCategory{models.CategoryFruit},
		Tags:       []models.FoodTag{models.TagLowCalorie},
	}, SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Item.ID)
	assert.Equal(t, 1.0, results[0].Relevance)
}

func TestSearchHonorsLimit(t *testing.T) {
	svc := newTestCatalog(t)

	results, err := svc.Search(context.Background(), search.Filters{}, SearchOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchMinRelevanceOverride(t *testing.T) {
	svc := newTestCatalog(t)

	strict := 0.95
	results, err := svc.Search(context.Background(), search.Filters{Query: "manzan"}, SearchOptions{MinRelevance: &strict})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSimilarFoods(t *testing.T) {
	svc := newTestCatalog(t)

	results, err := svc.SimilarFoods(context.Background(), "1", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Item.ID)

	_, err = svc.SimilarFoods(context.Background(), "missing", 5)
	assert.ErrorIs(t, err, ErrFoodNotFound)
}

func TestLookupAndBrowse(t *testing.T) {
	ctx := context.Background()
	svc := newTestCatalog(t)

	food, err := svc.Lookup(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "Pechuga de pollo", food.Name)

	_, err = svc.Lookup(ctx, "nope")
	assert.ErrorIs(t, err, ErrFoodNotFound)

	meat := models.CategoryMeat
	foods, err := svc.Browse(ctx, &meat)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "3", foods[0].ID)

	all, err := svc.Browse(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRefreshAggregatesRowErrors(t *testing.T) {
	st := store.New(":memory:")
	t.Cleanup(func() { st.Close() })
	svc := NewCatalogService(st, search.DefaultWeights())

	path := filepath.Join(t.TempDir(), "dirty.csv")
	dirty := "id,name,category,calories\n1,Manzana,frutas,52\n2,Pera,frutas,oops\n"
	require.NoError(t, os.WriteFile(path, []byte(dirty), 0o644))

	summary, err := svc.Refresh(context.Background(), ingest.FileSource{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Line)
}

func TestRefreshMissingSource(t *testing.T) {
	st := store.New(":memory:")
	t.Cleanup(func() { st.Close() })
	svc := NewCatalogService(st, search.DefaultWeights())

	_, err := svc.Refresh(context.Background(), ingest.FileSource{Path: "/does/not/exist.csv"})
	assert.Error(t, err)
}
