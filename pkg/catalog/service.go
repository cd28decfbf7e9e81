package catalog

import (
	"context"
	"io"
)

// Service is the main interface for catalog operations
type Service interface {
	// Item operations (materials, vegetables)
	CreateItem(ctx context.Context, kind Kind, req CreateItemRequest) (*Item, error)
	UpdateItem(ctx context.Context, kind Kind, name string, req UpdateItemRequest) (*Item, error)
	DeleteItem(ctx context.Context, kind Kind, name string) error
	GetItem(ctx context.Context, kind Kind, name string) (*Item, error)
	UpdateItemStatus(ctx context.Context, kind Kind, uid int64, status string) error
	ListItems(ctx context.Context, kind Kind, page PageRequest) (*ItemPage, error)
	DownloadAttachment(ctx context.Context, kind Kind, name string) (io.ReadCloser, error)

	// Store operations
	CreateStore(ctx context.Context, req CreateStoreRequest) (*Store, error)
	UpdateStore(ctx context.Context, uid int64, req UpdateStoreRequest) (*Store, error)
	DeleteStore(ctx context.Context, uid int64) error
	GetStore(ctx context.Context, uid int64) (*Store, error)
	UpdateStoreStatus(ctx context.Context, uid int64, status string) error
	ListStores(ctx context.Context, page PageRequest) (*StorePage, error)
}
