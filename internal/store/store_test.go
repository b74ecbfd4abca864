package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealtrack/catalog-backend/internal/models"
)

func newTestStore(t *testing.T) *CatalogStore {
	t.Helper()
	s := New(":memory:")
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func fullRecord() models.FoodRecord {
	brand := "Hacendado"
	barcode := "8480000123456"
	fiber := 2.4
	dv := 12.0
	return models.FoodRecord{
		ID:               "apple-1",
		Name:             "Manzana",
		NameTranslations: models.TranslationMap{"en": "Apple", "es": "Manzana"},
		Brand:            &brand,
		Category:         models.CategoryFruit,
		Tags:             models.FoodTagList{models.TagLowCalorie, models.TagVegan},
		Calories:         52,
		Protein:          0.3,
		Fat:              0.2,
		Carbs:            14,
		Fiber:            &fiber,
		Vitamins: models.MicronutrientList{
			{Name: "Vitamina C", Amount: 4.6, Unit: "mg", DailyValue: &dv},
		},
		Minerals: models.MicronutrientList{
			{Name: "Potasio", Amount: 107, Unit: "mg"},
		},
		ServingSize: 100,
		ServingUnit: "g",
		Barcode:     &barcode,
		SearchTerms: models.StringList{"apple", "poma"},
	}
}

func TestInitIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(":memory:")
	defer s.Close()

	require.NoError(t, s.Init(ctx))
	record := fullRecord()
	require.NoError(t, s.Put(ctx, &record))

	// second init is a no-op on the open handle, data survives
	require.NoError(t, s.Init(ctx))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	want := fullRecord()
	require.NoError(t, s.Put(ctx, &want))

	got, err := s.GetByID(ctx, want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestPutReplacesNotMerges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	r1 := fullRecord()
	require.NoError(t, s.Put(ctx, &r1))

	// same id, optional fields omitted
	r2 := models.FoodRecord{
		ID:          r1.ID,
		Name:        "Manzana",
		Category:    models.CategoryFruit,
		Calories:    52,
		ServingSize: 100,
		ServingUnit: "g",
	}
	require.NoError(t, s.Put(ctx, &r2))

	got, err := s.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Brand)
	assert.Nil(t, got.Barcode)
	assert.Nil(t, got.Fiber)
	assert.Empty(t, got.Tags)
	assert.Empty(t, got.SearchTerms)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetByIDMissingIsNotAnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	got, err := s.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetByCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	records := []models.FoodRecord{
		{ID: "1", Name: "Manzana", Category: models.CategoryFruit, ServingSize: 100, ServingUnit: "g"},
		{ID: "2", Name: "Plátano", Category: models.CategoryFruit, ServingSize: 100, ServingUnit: "g"},
		{ID: "3", Name: "Pollo", Category: models.CategoryMeat, ServingSize: 100, ServingUnit: "g"},
	}
	result, err := s.PutAll(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stored)
	assert.Empty(t, result.Failed)

	fruits, err := s.GetByCategory(ctx, models.CategoryFruit)
	require.NoError(t, err)
	assert.Len(t, fruits, 2)

	oils, err := s.GetByCategory(ctx, models.CategoryOil)
	require.NoError(t, err)
	assert.Empty(t, oils)
}

func TestGetByBarcode(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	record := fullRecord()
	require.NoError(t, s.Put(ctx, &record))

	got, err := s.GetByBarcode(ctx, *record.Barcode)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)

	missing, err := s.GetByBarcode(ctx, "0000000000000")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestClearEmptiesStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var records []models.FoodRecord
	for i := 0; i < 5; i++ {
		records = append(records, models.FoodRecord{
			ID:          fmt.Sprintf("food-%d", i),
			Name:        fmt.Sprintf("Food %d", i),
			Category:    models.CategoryOther,
			ServingSize: 100,
			ServingUnit: "g",
		})
	}
	result, err := s.PutAll(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Stored)

	require.NoError(t, s.Clear(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClosedStoreFailsExplicitly(t *testing.T) {
	ctx := context.Background()
	s := New(":memory:")

	// never initialized
	_, err := s.GetAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreClosed)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "getAll", storageErr.Op)

	// closed after use
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Close())

	record := fullRecord()
	err = s.Put(ctx, &record)
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = s.Count(ctx)
	assert.ErrorIs(t, err, ErrStoreClosed)
}

func TestCloseThenReopen(t *testing.T) {
	ctx := context.Background()
	s := New(":memory:")

	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close()) // double close is fine

	require.NoError(t, s.Init(ctx))
	defer s.Close()
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestStoreUnavailable(t *testing.T) {
	s := New("/nonexistent-dir/sub/catalog.db")
	err := s.Init(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
