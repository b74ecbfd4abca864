// Package store implements the client-local food catalog cache: a SQLite
// file with secondary indexes on name, category, and barcode, so the search
// engine can run against a full in-memory snapshot without a network
// round-trip per keystroke.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealtrack/catalog-backend/internal/database"
	"github.com/mealtrack/catalog-backend/internal/models"
)

// CatalogStore is a durable, queryable cache of FoodRecords. It holds a
// single SQLite handle; Init opens it, Close releases it, and every other
// operation fails explicitly with ErrStoreClosed while it is closed.
//
// The store provides no cross-operation ordering guarantees. Callers needing
// a point-in-time snapshot should call GetAll once and treat the result as
// immutable. Concurrent refresh sequences (init, clear, putAll) are not
// supported without external serialization; service.CatalogService provides
// that.
type CatalogStore struct {
	mu   sync.Mutex
	path string
	db   *gorm.DB
}

// New creates a store for the SQLite database at path. Use ":memory:" for an
// ephemeral store. Nothing is opened until Init.
func New(path string) *CatalogStore {
	return &CatalogStore{path: path}
}

// Init opens the database and migrates the food_records table and its
// indexes. It is idempotent: calling it on an open store is a no-op. If the
// medium cannot be opened the error wraps ErrStoreUnavailable.
func (s *CatalogStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := database.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.FoodRecord{}); err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrStoreUnavailable, err)
	}

	s.db = db
	return nil
}

// Put inserts or fully replaces the record with the same id. Every column is
// rewritten, so optional fields absent from record end up absent in the
// store; there is no field-level merge.
func (s *CatalogStore) Put(ctx context.Context, record *models.FoodRecord) error {
	db, err := s.handle("put")
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	return nil
}

// PutAll writes records one by one, best-effort. A failing record is
// reported in the result and does not stop the rest of the batch. The error
// return is non-nil only when the store itself is unusable (e.g. closed).
func (s *CatalogStore) PutAll(ctx context.Context, records []models.FoodRecord) (BulkResult, error) {
	var result BulkResult
	db, err := s.handle("putAll")
	if err != nil {
		return result, err
	}
	for i := range records {
		record := &records[i]
		if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error; err != nil {
			result.Failed = append(result.Failed, BulkFailure{ID: record.ID, Err: err})
			continue
		}
		result.Stored++
	}
	return result, nil
}

// GetByID returns the record with the given id, or (nil, nil) when no such
// record exists. A missing key is never an error.
func (s *CatalogStore) GetByID(ctx context.Context, id string) (*models.FoodRecord, error) {
	db, err := s.handle("getById")
	if err != nil {
		return nil, err
	}
	var record models.FoodRecord
	if err := db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "getById", Err: err}
	}
	return &record, nil
}

// GetByCategory returns every record in the given category. Order is
// unspecified.
func (s *CatalogStore) GetByCategory(ctx context.Context, category models.FoodCategory) ([]models.FoodRecord, error) {
	db, err := s.handle("getByCategory")
	if err != nil {
		return nil, err
	}
	var records []models.FoodRecord
	if err := db.WithContext(ctx).Where("category = ?", category).Find(&records).Error; err != nil {
		return nil, &StorageError{Op: "getByCategory", Err: err}
	}
	return records, nil
}

// GetByBarcode returns the first record with the given barcode, or
// (nil, nil) when none matches.
func (s *CatalogStore) GetByBarcode(ctx context.Context, barcode string) (*models.FoodRecord, error) {
	db, err := s.handle("getByBarcode")
	if err != nil {
		return nil, err
	}
	var record models.FoodRecord
	if err := db.WithContext(ctx).First(&record, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "getByBarcode", Err: err}
	}
	return &record, nil
}

// GetAll returns every stored record in insertion order.
func (s *CatalogStore) GetAll(ctx context.Context) ([]models.FoodRecord, error) {
	db, err := s.handle("getAll")
	if err != nil {
		return nil, err
	}
	var records []models.FoodRecord
	if err := db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, &StorageError{Op: "getAll", Err: err}
	}
	return records, nil
}

// Count returns the number of stored records via SQL COUNT.
func (s *CatalogStore) Count(ctx context.Context) (int64, error) {
	db, err := s.handle("count")
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.WithContext(ctx).Model(&models.FoodRecord{}).Count(&count).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return count, nil
}

// Clear removes every record. Used before a full reload so stale entries
// never linger.
func (s *CatalogStore) Clear(ctx context.Context) error {
	db, err := s.handle("clear")
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Where("1 = 1").Delete(&models.FoodRecord{}).Error; err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}

// Close releases the underlying database handle. Subsequent operations fail
// with ErrStoreClosed until Init re-opens the store.
func (s *CatalogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	if err := sqlDB.Close(); err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	return nil
}

// handle returns the open database or an explicit closed-store error.
func (s *CatalogStore) handle(op string) (*gorm.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, &StorageError{Op: op, Err: ErrStoreClosed}
	}
	return s.db, nil
}
