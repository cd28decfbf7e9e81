package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrItemNotFound indicates a catalog item was not found
	ErrItemNotFound = errors.New("item not found")

	// ErrItemExists indicates an item with the same name already exists
	ErrItemExists = errors.New("item already exists")

	// ErrStoreNotFound indicates a store was not found
	ErrStoreNotFound = errors.New("store not found")

	// ErrStoreExists indicates a store with the same name already exists
	ErrStoreExists = errors.New("store already exists")

	// ErrNoAttachment indicates the item has no attachment to download
	ErrNoAttachment = errors.New("item has no attachment")

	// ErrInvalidLimit indicates a non-positive page limit
	ErrInvalidLimit = errors.New("page limit must be positive")

	// ErrInvalidStatus indicates a status value outside the allowed set
	ErrInvalidStatus = errors.New("invalid status")
)

// ItemError represents an error related to a catalog item operation
type ItemError struct {
	Kind string
	Name string
	Op   string
	Err  error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s operation %s failed for %q: %v", e.Kind, e.Op, e.Name, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// StoreError represents an error related to a store operation
type StoreError struct {
	UID int64
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed for uid %d: %v", e.Op, e.UID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PublishError represents a failure to emit a change event
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s failed: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
