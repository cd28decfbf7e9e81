package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
	eventmemory "github.com/daehwan-lim/menu-catalog/pkg/catalog/event/memory"
	"github.com/daehwan-lim/menu-catalog/pkg/catalog/repo/memory"
	storagememory "github.com/daehwan-lim/menu-catalog/pkg/catalog/storage/memory"
)

type testEnv struct {
	svc       catalog.Service
	items     *memory.ItemRepository
	stores    *memory.StoreRepository
	blobs     *storagememory.Backend
	publisher *eventmemory.Publisher
}

func newTestEnv(t *testing.T, extra ...catalog.Option) *testEnv {
	t.Helper()

	env := &testEnv{
		items:     memory.NewItemRepository(),
		stores:    memory.NewStoreRepository(),
		blobs:     storagememory.New(),
		publisher: eventmemory.New(),
	}

	options := []catalog.Option{
		catalog.WithItemRepository(env.items),
		catalog.WithStoreRepository(env.stores),
		catalog.WithBlobStore(env.blobs),
		catalog.WithPublisher(env.publisher),
	}
	options = append(options, extra...)

	svc, err := catalog.New(options...)
	require.NoError(t, err)

	env.svc = svc
	return env
}

func attachment(name, content string) *catalog.Attachment {
	return &catalog.Attachment{
		FileName:    name,
		ContentType: "image/png",
		Data:        strings.NewReader(content),
	}
}

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []catalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []catalog.Option{},
			expectError: true,
		},
		{
			name: "missing blob store should fail",
			options: []catalog.Option{
				catalog.WithItemRepository(memory.NewItemRepository()),
				catalog.WithStoreRepository(memory.NewStoreRepository()),
			},
			expectError: true,
		},
		{
			name: "repositories and blob store should succeed",
			options: []catalog.Option{
				catalog.WithItemRepository(memory.NewItemRepository()),
				catalog.WithStoreRepository(memory.NewStoreRepository()),
				catalog.WithBlobStore(storagememory.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := catalog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestCreateItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name:    "onion",
		Calorie: 40,
		Price:   1200,
		Status:  "active",
	})
	require.NoError(t, err)

	assert.Greater(t, item.UID, int64(0))
	assert.Equal(t, "onion", item.Name)
	assert.Equal(t, catalog.ItemStatusActive, item.Status)
	assert.Equal(t, 0, item.Version)
	assert.Nil(t, item.AttachmentRef)
	assert.Equal(t, 0, env.blobs.Len())
}

func TestCreateItemWithAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	item, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name:       "garlic",
		Calorie:    150,
		Price:      3000,
		Status:     "ACTIVE",
		Attachment: attachment("garlic.png", "png-bytes"),
	})
	require.NoError(t, err)
	require.NotNil(t, item.AttachmentRef)

	assert.Equal(t, 1, env.blobs.Len())
	assert.True(t, strings.HasPrefix(*item.AttachmentRef, "material/"))

	reader, err := env.svc.DownloadAttachment(ctx, catalog.KindMaterial, "garlic")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCreateItemDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
	})
	require.NoError(t, err)

	_, err = env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
		Attachment: attachment("onion.png", "bytes"),
	})
	assert.ErrorIs(t, err, catalog.ErrItemExists)

	// The duplicate is rejected before any blob is written
	assert.Equal(t, 0, env.blobs.Len())
}

// A name deleted through the soft-delete path still blocks reuse:
// uniqueness is checked against every row, dead or alive.
func TestCreateItemNameHeldBySoftDeletedRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteItem(ctx, catalog.KindMaterial, "onion"))

	_, err = env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
	})
	assert.ErrorIs(t, err, catalog.ErrItemExists)
}

func TestCreateItemInvalidStatus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateItem(context.Background(), catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "EATEN",
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidStatus)
}

// countingBlobStore wraps a blob store and counts upload/delete calls
type countingBlobStore struct {
	catalog.BlobStore
	uploads int
	deletes int
}

func (b *countingBlobStore) Upload(ctx context.Context, key string, reader io.Reader) error {
	b.uploads++
	return b.BlobStore.Upload(ctx, key, reader)
}

func (b *countingBlobStore) Delete(ctx context.Context, key string) error {
	b.deletes++
	return b.BlobStore.Delete(ctx, key)
}

// failingItemRepo wraps the memory repository and fails selected calls
type failingItemRepo struct {
	*memory.ItemRepository
	insertErr error
	updateErr error
}

func (r *failingItemRepo) Insert(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	return r.ItemRepository.Insert(ctx, item)
}

func (r *failingItemRepo) Update(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.ItemRepository.Update(ctx, item)
}

func TestCreateItemCompensatesBlobOnPersistFailure(t *testing.T) {
	repoErr := errors.New("connection reset")
	repo := &failingItemRepo{ItemRepository: memory.NewItemRepository(), insertErr: repoErr}
	backend := storagememory.New()
	blobs := &countingBlobStore{BlobStore: backend}

	svc, err := catalog.New(
		catalog.WithItemRepository(repo),
		catalog.WithStoreRepository(memory.NewStoreRepository()),
		catalog.WithBlobStore(blobs),
	)
	require.NoError(t, err)

	_, err = svc.CreateItem(context.Background(), catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("garlic.png", "bytes"),
	})
	assert.ErrorIs(t, err, repoErr)

	// Exactly one upload then one compensating delete, leaving nothing
	assert.Equal(t, 1, blobs.uploads)
	assert.Equal(t, 1, blobs.deletes)
	assert.Equal(t, 0, backend.Len())
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Calorie: 40, Price: 1200, Status: "ACTIVE",
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdateItem(ctx, catalog.KindMaterial, "onion", catalog.UpdateItemRequest{
		Name: "red onion", Calorie: 45, Price: 1500, Status: "SOLD_OUT",
	})
	require.NoError(t, err)

	assert.Equal(t, created.UID, updated.UID)
	assert.Equal(t, "red onion", updated.Name)
	assert.Equal(t, catalog.ItemStatusSoldOut, updated.Status)
	assert.Equal(t, created.Version+1, updated.Version)
	assert.Equal(t, 0, env.blobs.Len())

	// The old name is free for lookup purposes after the rename
	_, err = env.svc.GetItem(ctx, catalog.KindMaterial, "onion")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestUpdateItemReplacesAttachment(t *testing.T) {
	backend := storagememory.New()
	blobs := &countingBlobStore{BlobStore: backend}

	svc, err := catalog.New(
		catalog.WithItemRepository(memory.NewItemRepository()),
		catalog.WithStoreRepository(memory.NewStoreRepository()),
		catalog.WithBlobStore(blobs),
	)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("old.png", "old-bytes"),
	})
	require.NoError(t, err)
	oldRef := *created.AttachmentRef

	updated, err := svc.UpdateItem(ctx, catalog.KindMaterial, "garlic", catalog.UpdateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("new.png", "new-bytes"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AttachmentRef)

	assert.NotEqual(t, oldRef, *updated.AttachmentRef)
	assert.Equal(t, created.Version+1, updated.Version)

	// The swap is one delete of the old blob plus one fresh upload
	assert.Equal(t, 2, blobs.uploads)
	assert.Equal(t, 1, blobs.deletes)
	assert.Equal(t, 1, backend.Len())

	reader, err := svc.DownloadAttachment(ctx, catalog.KindMaterial, "garlic")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "new-bytes", string(data))
}

func TestUpdateItemWithoutAttachmentKeepsBlob(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("garlic.png", "bytes"),
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdateItem(ctx, catalog.KindMaterial, "garlic", catalog.UpdateItemRequest{
		Name: "garlic", Calorie: 10, Status: "ACTIVE",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AttachmentRef)
	assert.Equal(t, *created.AttachmentRef, *updated.AttachmentRef)
	assert.Equal(t, 1, env.blobs.Len())
}

func TestUpdateItemCompensatesFreshUploadOnPersistFailure(t *testing.T) {
	repo := &failingItemRepo{ItemRepository: memory.NewItemRepository()}
	blobs := storagememory.New()

	svc, err := catalog.New(
		catalog.WithItemRepository(repo),
		catalog.WithStoreRepository(memory.NewStoreRepository()),
		catalog.WithBlobStore(blobs),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("old.png", "old-bytes"),
	})
	require.NoError(t, err)

	repoErr := errors.New("connection reset")
	repo.updateErr = repoErr

	_, err = svc.UpdateItem(ctx, catalog.KindMaterial, "garlic", catalog.UpdateItemRequest{
		Name: "garlic", Status: "ACTIVE",
		Attachment: attachment("new.png", "new-bytes"),
	})
	assert.ErrorIs(t, err, repoErr)

	// The fresh upload was rolled back. The previous blob was already
	// replaced before the persist attempt, so nothing remains.
	assert.Equal(t, 0, blobs.Len())
}

func TestUpdateItemNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.UpdateItem(context.Background(), catalog.KindMaterial, "ghost", catalog.UpdateItemRequest{
		Name: "ghost", Status: "ACTIVE",
	})
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestDeleteItemSoftDeletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
		Attachment: attachment("onion.png", "bytes"),
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteItem(ctx, catalog.KindMaterial, "onion"))

	// The row survives with DELETED status and its attachment intact
	item, err := env.svc.GetItem(ctx, catalog.KindMaterial, "onion")
	require.NoError(t, err)
	assert.Equal(t, catalog.ItemStatusDeleted, item.Status)
	assert.Equal(t, created.Version+1, item.Version)
	assert.Equal(t, 1, env.blobs.Len())

	// Soft-deleted rows are not filtered from listings
	page, err := env.svc.ListItems(ctx, catalog.KindMaterial, catalog.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, catalog.ItemStatusDeleted, page.Items[0].Status)
}

func TestUpdateItemStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
	})
	require.NoError(t, err)

	require.NoError(t, env.svc.UpdateItemStatus(ctx, catalog.KindMaterial, created.UID, "sold_out"))

	item, err := env.svc.GetItem(ctx, catalog.KindMaterial, "onion")
	require.NoError(t, err)
	assert.Equal(t, catalog.ItemStatusSoldOut, item.Status)

	err = env.svc.UpdateItemStatus(ctx, catalog.KindMaterial, created.UID, "BROKEN")
	assert.ErrorIs(t, err, catalog.ErrInvalidStatus)

	err = env.svc.UpdateItemStatus(ctx, catalog.KindMaterial, 9999, "ACTIVE")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestDownloadAttachmentMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateItem(ctx, catalog.KindMaterial, catalog.CreateItemRequest{
		Name: "onion", Status: "ACTIVE",
	})
	require.NoError(t, err)

	_, err = env.svc.DownloadAttachment(ctx, catalog.KindMaterial, "onion")
	assert.ErrorIs(t, err, catalog.ErrNoAttachment)
}
