package catalog

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for attachment storage backends
type BlobStore interface {
	// Upload stores the content under the given key
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download retrieves the content stored under the given key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content stored under the given key.
	// Deleting a key that does not exist is not an error.
	Delete(ctx context.Context, key string) error

	// GetObjectMeta retrieves metadata for a stored blob
	GetObjectMeta(ctx context.Context, key string) (*ObjectMeta, error)
}

// ObjectMeta contains metadata about a blob in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// EventPublisher defines the interface for emitting change events.
// Delivery is fire-and-forget: beyond the call's own success or
// failure no acknowledgment is surfaced to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// ItemRepository defines persistence for catalog items of all kinds.
// Each mutating call is individually transactional.
type ItemRepository interface {
	// Insert persists a new item, assigning its UID and setting
	// Version to zero.
	Insert(ctx context.Context, item *Item) (*Item, error)

	// Update persists changes to an existing item and bumps Version.
	Update(ctx context.Context, item *Item) (*Item, error)

	// FindByName returns the item of the given kind with the given
	// name, or ErrItemNotFound.
	FindByName(ctx context.Context, kind, name string) (*Item, error)

	// FindByUID returns the item of the given kind with the given
	// uid, or ErrItemNotFound.
	FindByUID(ctx context.Context, kind string, uid int64) (*Item, error)

	// ExistsByName reports whether any item of the given kind carries
	// the name. The check is global: soft-deleted rows count.
	ExistsByName(ctx context.Context, kind, name string) (bool, error)

	// UpdateStatus sets the status of the item with the given uid.
	UpdateStatus(ctx context.Context, kind string, uid int64, status ItemStatus) error

	// List returns up to limit items of the given kind ordered by
	// ascending uid, starting strictly after lastUID when non-nil.
	List(ctx context.Context, kind string, limit int, lastUID *int64) ([]*Item, error)
}

// StoreRepository defines persistence for stores.
type StoreRepository interface {
	Insert(ctx context.Context, store *Store) (*Store, error)
	Update(ctx context.Context, store *Store) (*Store, error)
	FindByUID(ctx context.Context, uid int64) (*Store, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	UpdateStatus(ctx context.Context, uid int64, status StoreStatus) error

	// Delete removes the row entirely. Stores are the only entity
	// with a hard-delete path.
	Delete(ctx context.Context, uid int64) error

	List(ctx context.Context, limit int, lastUID *int64) ([]*Store, error)
}
