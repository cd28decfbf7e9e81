package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
)

// ItemRepository implements catalog.ItemRepository using in-memory storage
type ItemRepository struct {
	mu      sync.RWMutex
	items   map[int64]*catalog.Item
	byName  map[string]int64 // "kind:name" -> uid
	nextUID int64
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository() *ItemRepository {
	return &ItemRepository{
		items:  make(map[int64]*catalog.Item),
		byName: make(map[string]int64),
	}
}

func nameKey(kind, name string) string {
	return fmt.Sprintf("%s:%s", kind, name)
}

func (r *ItemRepository) Insert(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextUID++

	// Create a copy to avoid external modifications
	itemCopy := *item
	itemCopy.UID = r.nextUID
	itemCopy.Version = 0

	r.items[itemCopy.UID] = &itemCopy
	r.byName[nameKey(itemCopy.Kind, itemCopy.Name)] = itemCopy.UID

	result := itemCopy
	return &result, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.UID]
	if !exists {
		return nil, catalog.ErrItemNotFound
	}

	// Renames must keep the name index in sync
	if existing.Name != item.Name {
		delete(r.byName, nameKey(existing.Kind, existing.Name))
		r.byName[nameKey(item.Kind, item.Name)] = item.UID
	}

	itemCopy := *item
	itemCopy.Version = existing.Version + 1
	r.items[item.UID] = &itemCopy

	result := itemCopy
	return &result, nil
}

func (r *ItemRepository) FindByName(ctx context.Context, kind, name string) (*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uid, exists := r.byName[nameKey(kind, name)]
	if !exists {
		return nil, catalog.ErrItemNotFound
	}

	item, exists := r.items[uid]
	if !exists {
		return nil, catalog.ErrItemNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

func (r *ItemRepository) FindByUID(ctx context.Context, kind string, uid int64) (*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[uid]
	if !exists || item.Kind != kind {
		return nil, catalog.ErrItemNotFound
	}

	itemCopy := *item
	return &itemCopy, nil
}

// ExistsByName checks by name across all rows of the kind, including
// soft-deleted ones.
func (r *ItemRepository) ExistsByName(ctx context.Context, kind, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byName[nameKey(kind, name)]
	return exists, nil
}

func (r *ItemRepository) UpdateStatus(ctx context.Context, kind string, uid int64, status catalog.ItemStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[uid]
	if !exists || item.Kind != kind {
		return catalog.ErrItemNotFound
	}

	item.Status = status
	item.Version++
	return nil
}

// List returns up to limit items of the kind ordered by ascending uid,
// starting strictly after lastUID when non-nil. Soft-deleted rows are
// not filtered out.
func (r *ItemRepository) List(ctx context.Context, kind string, limit int, lastUID *int64) ([]*catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Item, 0, limit)
	for _, item := range r.items {
		if item.Kind != kind {
			continue
		}
		if lastUID != nil && item.UID <= *lastUID {
			continue
		}
		itemCopy := *item
		result = append(result, &itemCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UID < result[j].UID
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// StoreRepository implements catalog.StoreRepository using in-memory storage
type StoreRepository struct {
	mu      sync.RWMutex
	stores  map[int64]*catalog.Store
	byName  map[string]int64
	nextUID int64
}

// NewStoreRepository creates a new in-memory store repository
func NewStoreRepository() *StoreRepository {
	return &StoreRepository{
		stores: make(map[int64]*catalog.Store),
		byName: make(map[string]int64),
	}
}

func (r *StoreRepository) Insert(ctx context.Context, store *catalog.Store) (*catalog.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextUID++

	storeCopy := *store
	storeCopy.UID = r.nextUID
	storeCopy.Version = 0

	r.stores[storeCopy.UID] = &storeCopy
	r.byName[storeCopy.Name] = storeCopy.UID

	result := storeCopy
	return &result, nil
}

func (r *StoreRepository) Update(ctx context.Context, store *catalog.Store) (*catalog.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.stores[store.UID]
	if !exists {
		return nil, catalog.ErrStoreNotFound
	}

	if existing.Name != store.Name {
		delete(r.byName, existing.Name)
		r.byName[store.Name] = store.UID
	}

	storeCopy := *store
	storeCopy.Version = existing.Version + 1
	r.stores[store.UID] = &storeCopy

	result := storeCopy
	return &result, nil
}

func (r *StoreRepository) FindByUID(ctx context.Context, uid int64) (*catalog.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	store, exists := r.stores[uid]
	if !exists {
		return nil, catalog.ErrStoreNotFound
	}

	storeCopy := *store
	return &storeCopy, nil
}

func (r *StoreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byName[name]
	return exists, nil
}

func (r *StoreRepository) UpdateStatus(ctx context.Context, uid int64, status catalog.StoreStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, exists := r.stores[uid]
	if !exists {
		return catalog.ErrStoreNotFound
	}

	store.Status = status
	store.Version++
	return nil
}

// Delete removes the row entirely; uids are never reused.
func (r *StoreRepository) Delete(ctx context.Context, uid int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, exists := r.stores[uid]
	if !exists {
		return catalog.ErrStoreNotFound
	}

	delete(r.byName, store.Name)
	delete(r.stores, uid)
	return nil
}

func (r *StoreRepository) List(ctx context.Context, limit int, lastUID *int64) ([]*catalog.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Store, 0, limit)
	for _, store := range r.stores {
		if lastUID != nil && store.UID <= *lastUID {
			continue
		}
		storeCopy := *store
		result = append(result, &storeCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UID < result[j].UID
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
