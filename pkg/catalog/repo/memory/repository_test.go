package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
	"github.com/daehwan-lim/menu-catalog/pkg/catalog/repo/memory"
)

func TestItemRepositoryInsert(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	first, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion", Version: 42})
	require.NoError(t, err)

	// UID assigned, version forced to zero regardless of input
	assert.Equal(t, int64(1), first.UID)
	assert.Equal(t, 0, first.Version)

	second, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "garlic"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.UID)
}

func TestItemRepositoryUpdate(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion"})
	require.NoError(t, err)

	created.Calorie = 40
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	again, err := repo.Update(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Version)

	_, err = repo.Update(ctx, &catalog.Item{UID: 9999, Kind: "material", Name: "ghost"})
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestItemRepositoryRenameKeepsIndex(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion"})
	require.NoError(t, err)

	created.Name = "red onion"
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	_, err = repo.FindByName(ctx, "material", "onion")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	found, err := repo.FindByName(ctx, "material", "red onion")
	require.NoError(t, err)
	assert.Equal(t, created.UID, found.UID)

	exists, err := repo.ExistsByName(ctx, "material", "onion")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestItemRepositoryExistsByNameIncludesSoftDeleted(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion", Status: catalog.ItemStatusActive})
	require.NoError(t, err)

	created.Status = catalog.ItemStatusDeleted
	_, err = repo.Update(ctx, created)
	require.NoError(t, err)

	exists, err := repo.ExistsByName(ctx, "material", "onion")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestItemRepositoryKindsAreIsolated(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	_, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "spinach"})
	require.NoError(t, err)

	_, err = repo.FindByName(ctx, "vegetable", "spinach")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	exists, err := repo.ExistsByName(ctx, "vegetable", "spinach")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestItemRepositoryUpdateStatus(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion", Status: catalog.ItemStatusActive})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, "material", created.UID, catalog.ItemStatusSoldOut))

	found, err := repo.FindByUID(ctx, "material", created.UID)
	require.NoError(t, err)
	assert.Equal(t, catalog.ItemStatusSoldOut, found.Status)
	assert.Equal(t, 1, found.Version)

	err = repo.UpdateStatus(ctx, "vegetable", created.UID, catalog.ItemStatusActive)
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
}

func TestItemRepositoryList(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: fmt.Sprintf("item-%d", i)})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, "material", 3, nil)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(1), page[0].UID)
	assert.Equal(t, int64(3), page[2].UID)

	cursor := page[2].UID
	rest, err := repo.List(ctx, "material", 3, &cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, int64(4), rest[0].UID)
	assert.Equal(t, int64(5), rest[1].UID)
}

func TestItemRepositoryReturnsCopies(t *testing.T) {
	repo := memory.NewItemRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Item{Kind: "material", Name: "onion", Calorie: 40})
	require.NoError(t, err)

	// Mutating a returned row must not leak into the repository
	created.Calorie = 999

	found, err := repo.FindByUID(ctx, "material", created.UID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, found.Calorie)
}

func TestStoreRepositoryLifecycle(t *testing.T) {
	repo := memory.NewStoreRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, &catalog.Store{Name: "Gangnam Branch", Status: catalog.StoreStatusOpen})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.UID)
	assert.Equal(t, 0, created.Version)

	created.Address = "123 Teheran-ro"
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	require.NoError(t, repo.UpdateStatus(ctx, created.UID, catalog.StoreStatusClosed))
	found, err := repo.FindByUID(ctx, created.UID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StoreStatusClosed, found.Status)

	require.NoError(t, repo.Delete(ctx, created.UID))
	_, err = repo.FindByUID(ctx, created.UID)
	assert.ErrorIs(t, err, catalog.ErrStoreNotFound)

	exists, err := repo.ExistsByName(ctx, "Gangnam Branch")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, repo.Delete(ctx, created.UID), catalog.ErrStoreNotFound)
}

func TestStoreRepositoryUIDsNeverReused(t *testing.T) {
	repo := memory.NewStoreRepository()
	ctx := context.Background()

	first, err := repo.Insert(ctx, &catalog.Store{Name: "First", Status: catalog.StoreStatusOpen})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first.UID))

	second, err := repo.Insert(ctx, &catalog.Store{Name: "Second", Status: catalog.StoreStatusOpen})
	require.NoError(t, err)
	assert.Greater(t, second.UID, first.UID)
}

func TestStoreRepositoryList(t *testing.T) {
	repo := memory.NewStoreRepository()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := repo.Insert(ctx, &catalog.Store{Name: fmt.Sprintf("store-%d", i), Status: catalog.StoreStatusOpen})
		require.NoError(t, err)
	}

	page, err := repo.List(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].UID)

	cursor := page[1].UID
	rest, err := repo.List(ctx, 10, &cursor)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, int64(3), rest[0].UID)
}
