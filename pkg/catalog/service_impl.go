package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// service implements the Service interface
type service struct {
	items     ItemRepository
	stores    StoreRepository
	blobs     BlobStore
	publisher EventPublisher
	logger    *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithItemRepository sets the item repository for the service
func WithItemRepository(repo ItemRepository) Option {
	return func(s *service) {
		s.items = repo
	}
}

// WithStoreRepository sets the store repository for the service
func WithStoreRepository(repo StoreRepository) Option {
	return func(s *service) {
		s.stores = repo
	}
}

// WithBlobStore sets the attachment storage backend
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithPublisher sets the event publisher for the service
func WithPublisher(publisher EventPublisher) Option {
	return func(s *service) {
		s.publisher = publisher
	}
}

// WithLogger sets the logger used for compensation and publish warnings
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger:    slog.Default(),
		publisher: NewNoopPublisher(),
	}

	for _, option := range options {
		option(s)
	}

	if s.items == nil {
		return nil, fmt.Errorf("item repository is required")
	}
	if s.stores == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}

	return s, nil
}

// Item operations
//
// Create and update run a three-step pipeline: write the attachment
// blob, persist the row in one repository transaction, publish the
// change event. A blob written during the current call is the only
// acquired external resource; if a later step fails it is deleted
// before the original error is returned. A blob that survived from a
// previous call is never rolled back.

func (s *service) CreateItem(ctx context.Context, kind Kind, req CreateItemRequest) (*Item, error) {
	exists, err := s.items.ExistsByName(ctx, kind.Name, req.Name)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: req.Name, Op: "create", Err: err}
	}
	if exists {
		return nil, &ItemError{Kind: kind.Name, Name: req.Name, Op: "create", Err: ErrItemExists}
	}

	status, err := ParseItemStatus(req.Status)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: req.Name, Op: "create", Err: err}
	}

	var ref *string
	if req.Attachment != nil {
		key := attachmentKey(kind.Name, req.Attachment.FileName)
		if err := s.blobs.Upload(ctx, key, req.Attachment.Data); err != nil {
			return nil, &StorageError{Key: key, Op: "upload", Err: err}
		}
		ref = &key
	}

	now := time.Now().UTC()
	item := &Item{
		Kind:          kind.Name,
		Name:          req.Name,
		Calorie:       req.Calorie,
		Price:         req.Price,
		AttachmentRef: ref,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.items.Insert(ctx, item)
	if err != nil {
		s.discardBlob(ctx, ref)
		return nil, &ItemError{Kind: kind.Name, Name: req.Name, Op: "create", Err: err}
	}

	if kind.PublishEvents {
		if err := s.publishItemEvent(ctx, kind.Topics.Add, created); err != nil {
			// The row is committed; the event is at-least-once from
			// the consumer's point of view anyway.
			s.logger.Warn("item event publish failed",
				"kind", kind.Name, "name", created.Name, "topic", kind.Topics.Add, "error", err)
		}
	}

	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, kind Kind, name string, req UpdateItemRequest) (*Item, error) {
	item, err := s.items.FindByName(ctx, kind.Name, name)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "update", Err: err}
	}

	status, err := ParseItemStatus(req.Status)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "update", Err: err}
	}

	ref := item.AttachmentRef
	var freshUpload bool
	if req.Attachment != nil {
		if ref != nil {
			if err := s.blobs.Delete(ctx, *ref); err != nil {
				return nil, &StorageError{Key: *ref, Op: "delete", Err: err}
			}
		}
		key := attachmentKey(kind.Name, req.Attachment.FileName)
		if err := s.blobs.Upload(ctx, key, req.Attachment.Data); err != nil {
			return nil, &StorageError{Key: key, Op: "upload", Err: err}
		}
		ref = &key
		freshUpload = true
	}

	item.Name = req.Name
	item.Calorie = req.Calorie
	item.Price = req.Price
	item.AttachmentRef = ref
	item.Status = status
	item.UpdatedAt = time.Now().UTC()

	updated, err := s.items.Update(ctx, item)
	if err != nil {
		if freshUpload {
			s.discardBlob(ctx, ref)
		}
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "update", Err: err}
	}

	if kind.PublishEvents {
		if err := s.publishItemEvent(ctx, kind.Topics.Update, updated); err != nil {
			s.logger.Warn("item event publish failed",
				"kind", kind.Name, "name", updated.Name, "topic", kind.Topics.Update, "error", err)
		}
	}

	return updated, nil
}

// DeleteItem soft-deletes: the row stays, status becomes DELETED. The
// attachment is left in place so the reference in the dead row stays
// valid. Unlike create and update, a publish failure here surfaces to
// the caller.
func (s *service) DeleteItem(ctx context.Context, kind Kind, name string) error {
	item, err := s.items.FindByName(ctx, kind.Name, name)
	if err != nil {
		return &ItemError{Kind: kind.Name, Name: name, Op: "delete", Err: err}
	}

	item.Status = ItemStatusDeleted
	item.UpdatedAt = time.Now().UTC()

	deleted, err := s.items.Update(ctx, item)
	if err != nil {
		return &ItemError{Kind: kind.Name, Name: name, Op: "delete", Err: err}
	}

	if kind.PublishEvents {
		if err := s.publishItemEvent(ctx, kind.Topics.Delete, deleted); err != nil {
			return &ItemError{Kind: kind.Name, Name: name, Op: "delete", Err: err}
		}
	}

	return nil
}

func (s *service) GetItem(ctx context.Context, kind Kind, name string) (*Item, error) {
	item, err := s.items.FindByName(ctx, kind.Name, name)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "get", Err: err}
	}
	return item, nil
}

func (s *service) UpdateItemStatus(ctx context.Context, kind Kind, uid int64, status string) error {
	parsed, err := ParseItemStatus(status)
	if err != nil {
		return &ItemError{Kind: kind.Name, Op: "update_status", Err: err}
	}
	if err := s.items.UpdateStatus(ctx, kind.Name, uid, parsed); err != nil {
		return &ItemError{Kind: kind.Name, Op: "update_status", Err: err}
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, kind Kind, page PageRequest) (*ItemPage, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	items, err := s.items.List(ctx, kind.Name, page.Limit, page.LastUID)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Op: "list", Err: err}
	}
	return newItemPage(items, page.Limit), nil
}

func (s *service) DownloadAttachment(ctx context.Context, kind Kind, name string) (io.ReadCloser, error) {
	item, err := s.items.FindByName(ctx, kind.Name, name)
	if err != nil {
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "download", Err: err}
	}
	if item.AttachmentRef == nil {
		return nil, &ItemError{Kind: kind.Name, Name: name, Op: "download", Err: ErrNoAttachment}
	}

	reader, err := s.blobs.Download(ctx, *item.AttachmentRef)
	if err != nil {
		return nil, &StorageError{Key: *item.AttachmentRef, Op: "download", Err: err}
	}
	return reader, nil
}

// Store operations

func (s *service) CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error) {
	exists, err := s.stores.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	if exists {
		return nil, &StoreError{Op: "create", Err: ErrStoreExists}
	}

	status, err := ParseStoreStatus(req.Status)
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}

	now := time.Now().UTC()
	store := &Store{
		Name:      req.Name,
		Address:   req.Address,
		Postcode:  req.Postcode,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.stores.Insert(ctx, store)
	if err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	return created, nil
}

func (s *service) UpdateStore(ctx context.Context, uid int64, req UpdateStoreRequest) (*Store, error) {
	store, err := s.stores.FindByUID(ctx, uid)
	if err != nil {
		return nil, &StoreError{UID: uid, Op: "update", Err: err}
	}

	status, err := ParseStoreStatus(req.Status)
	if err != nil {
		return nil, &StoreError{UID: uid, Op: "update", Err: err}
	}

	store.Name = req.Name
	store.Address = req.Address
	store.Postcode = req.Postcode
	store.Latitude = req.Latitude
	store.Longitude = req.Longitude
	store.Status = status
	store.UpdatedAt = time.Now().UTC()

	updated, err := s.stores.Update(ctx, store)
	if err != nil {
		return nil, &StoreError{UID: uid, Op: "update", Err: err}
	}
	return updated, nil
}

func (s *service) DeleteStore(ctx context.Context, uid int64) error {
	if err := s.stores.Delete(ctx, uid); err != nil {
		return &StoreError{UID: uid, Op: "delete", Err: err}
	}
	return nil
}

func (s *service) GetStore(ctx context.Context, uid int64) (*Store, error) {
	store, err := s.stores.FindByUID(ctx, uid)
	if err != nil {
		return nil, &StoreError{UID: uid, Op: "get", Err: err}
	}
	return store, nil
}

func (s *service) UpdateStoreStatus(ctx context.Context, uid int64, status string) error {
	parsed, err := ParseStoreStatus(status)
	if err != nil {
		return &StoreError{UID: uid, Op: "update_status", Err: err}
	}
	if err := s.stores.UpdateStatus(ctx, uid, parsed); err != nil {
		return &StoreError{UID: uid, Op: "update_status", Err: err}
	}
	return nil
}

func (s *service) ListStores(ctx context.Context, page PageRequest) (*StorePage, error) {
	if err := page.validate(); err != nil {
		return nil, err
	}
	stores, err := s.stores.List(ctx, page.Limit, page.LastUID)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return newStorePage(stores, page.Limit), nil
}

// Helper methods

// discardBlob is the compensating action for a blob written earlier in
// the same call. Its failure is logged, never returned: the primary
// error must not be masked by cleanup.
func (s *service) discardBlob(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.blobs.Delete(ctx, *ref); err != nil {
		s.logger.Error("compensating attachment delete failed", "key", *ref, "error", err)
	}
}

func (s *service) publishItemEvent(ctx context.Context, topic string, item *Item) error {
	payload, err := newItemEvent(item).encode()
	if err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		return &PublishError{Topic: topic, Err: err}
	}
	return nil
}
