package store

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable means the underlying storage medium could not be
// opened at all. Offline mode is unavailable for the session; callers should
// fall back to remote-only operation.
var ErrStoreUnavailable = errors.New("catalog store unavailable")

// ErrStoreClosed means an operation was issued against a closed store.
// Init re-opens it.
var ErrStoreClosed = errors.New("catalog store is closed")

// StorageError is a failed operation against an opened store (quota, I/O,
// corruption). These are recoverable: retry, or clear and reload.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("catalog store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// BulkFailure identifies one record that failed during PutAll.
type BulkFailure struct {
	ID  string
	Err error
}

// BulkResult reports the outcome of a PutAll. Partial success is valid and
// observable: Stored counts the records written, Failed lists the rest.
type BulkResult struct {
	Stored int
	Failed []BulkFailure
}
