package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// ItemRepository implements catalog.ItemRepository using PostgreSQL.
//
// Schema:
//
//	CREATE TABLE catalog_item (
//	    uid        BIGSERIAL PRIMARY KEY,
//	    kind       TEXT NOT NULL,
//	    name       TEXT NOT NULL,
//	    calorie    DOUBLE PRECISION NOT NULL,
//	    price      INTEGER NOT NULL,
//	    img        TEXT,
//	    status     TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL,
//	    version    INTEGER NOT NULL DEFAULT 0,
//	    UNIQUE (kind, name)
//	);
type ItemRepository struct {
	db DBTX
}

// NewItemRepository creates a new PostgreSQL item repository
func NewItemRepository(db DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// NewItemRepositoryWithPool creates a new PostgreSQL item repository with a connection pool
func NewItemRepositoryWithPool(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: pool}
}

// Error handling helper
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return catalog.ErrItemExists
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrItemNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *ItemRepository) Insert(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	query := `
		INSERT INTO catalog_item (kind, name, calorie, price, img, status, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING uid, version`

	result := *item
	err := r.db.QueryRow(ctx, query,
		item.Kind, item.Name, item.Calorie, item.Price, item.AttachmentRef,
		item.Status, item.CreatedAt, item.UpdatedAt).Scan(&result.UID, &result.Version)
	if err != nil {
		return nil, handlePostgresError("insert item", err)
	}

	return &result, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *catalog.Item) (*catalog.Item, error) {
	query := `
		UPDATE catalog_item SET
			name = $2, calorie = $3, price = $4, img = $5, status = $6,
			updated_at = $7, version = version + 1
		WHERE uid = $1
		RETURNING version`

	result := *item
	err := r.db.QueryRow(ctx, query,
		item.UID, item.Name, item.Calorie, item.Price, item.AttachmentRef,
		item.Status, item.UpdatedAt).Scan(&result.Version)
	if err != nil {
		return nil, handlePostgresError("update item", err)
	}

	return &result, nil
}

func (r *ItemRepository) FindByName(ctx context.Context, kind, name string) (*catalog.Item, error) {
	query := `
		SELECT uid, kind, name, calorie, price, img, status, created_at, updated_at, version
		FROM catalog_item WHERE kind = $1 AND name = $2`

	return r.scanItem(r.db.QueryRow(ctx, query, kind, name))
}

func (r *ItemRepository) FindByUID(ctx context.Context, kind string, uid int64) (*catalog.Item, error) {
	query := `
		SELECT uid, kind, name, calorie, price, img, status, created_at, updated_at, version
		FROM catalog_item WHERE kind = $1 AND uid = $2`

	return r.scanItem(r.db.QueryRow(ctx, query, kind, uid))
}

// ExistsByName checks by name across all rows of the kind; soft-deleted
// rows are not excluded.
func (r *ItemRepository) ExistsByName(ctx context.Context, kind, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM catalog_item WHERE kind = $1 AND name = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, kind, name).Scan(&exists); err != nil {
		return false, handlePostgresError("exists by name", err)
	}
	return exists, nil
}

func (r *ItemRepository) UpdateStatus(ctx context.Context, kind string, uid int64, status catalog.ItemStatus) error {
	query := `
		UPDATE catalog_item SET status = $3, version = version + 1
		WHERE kind = $1 AND uid = $2`

	tag, err := r.db.Exec(ctx, query, kind, uid, status)
	if err != nil {
		return handlePostgresError("update item status", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) List(ctx context.Context, kind string, limit int, lastUID *int64) ([]*catalog.Item, error) {
	var rows pgx.Rows
	var err error

	if lastUID == nil {
		query := `
			SELECT uid, kind, name, calorie, price, img, status, created_at, updated_at, version
			FROM catalog_item WHERE kind = $1
			ORDER BY uid ASC LIMIT $2`
		rows, err = r.db.Query(ctx, query, kind, limit)
	} else {
		query := `
			SELECT uid, kind, name, calorie, price, img, status, created_at, updated_at, version
			FROM catalog_item WHERE kind = $1 AND uid > $2
			ORDER BY uid ASC LIMIT $3`
		rows, err = r.db.Query(ctx, query, kind, *lastUID, limit)
	}
	if err != nil {
		return nil, handlePostgresError("list items", err)
	}
	defer rows.Close()

	var items []*catalog.Item
	for rows.Next() {
		var item catalog.Item
		if err := rows.Scan(
			&item.UID, &item.Kind, &item.Name, &item.Calorie, &item.Price,
			&item.AttachmentRef, &item.Status, &item.CreatedAt, &item.UpdatedAt,
			&item.Version); err != nil {
			return nil, handlePostgresError("list items", err)
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *ItemRepository) scanItem(row pgx.Row) (*catalog.Item, error) {
	var item catalog.Item
	err := row.Scan(
		&item.UID, &item.Kind, &item.Name, &item.Calorie, &item.Price,
		&item.AttachmentRef, &item.Status, &item.CreatedAt, &item.UpdatedAt,
		&item.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrItemNotFound
		}
		return nil, handlePostgresError("scan item", err)
	}
	return &item, nil
}

// StoreRepository implements catalog.StoreRepository using PostgreSQL.
//
// Schema:
//
//	CREATE TABLE store (
//	    uid          BIGSERIAL PRIMARY KEY,
//	    store_name   TEXT NOT NULL UNIQUE,
//	    address      TEXT NOT NULL,
//	    postcode     TEXT NOT NULL,
//	    latitude     DOUBLE PRECISION NOT NULL,
//	    longitude    DOUBLE PRECISION NOT NULL,
//	    status       TEXT NOT NULL,
//	    created_date TIMESTAMPTZ NOT NULL,
//	    updated_date TIMESTAMPTZ NOT NULL,
//	    version      INTEGER NOT NULL DEFAULT 0
//	);
type StoreRepository struct {
	db DBTX
}

// NewStoreRepository creates a new PostgreSQL store repository
func NewStoreRepository(db DBTX) *StoreRepository {
	return &StoreRepository{db: db}
}

// NewStoreRepositoryWithPool creates a new PostgreSQL store repository with a connection pool
func NewStoreRepositoryWithPool(pool *pgxpool.Pool) *StoreRepository {
	return &StoreRepository{db: pool}
}

func handleStoreError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return catalog.ErrStoreExists
		}
		return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrStoreNotFound
	}
	return fmt.Errorf("database error in %s: %w", operation, err)
}

func (r *StoreRepository) Insert(ctx context.Context, store *catalog.Store) (*catalog.Store, error) {
	query := `
		INSERT INTO store (store_name, address, postcode, latitude, longitude, status, created_date, updated_date, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING uid, version`

	result := *store
	err := r.db.QueryRow(ctx, query,
		store.Name, store.Address, store.Postcode, store.Latitude, store.Longitude,
		store.Status, store.CreatedAt, store.UpdatedAt).Scan(&result.UID, &result.Version)
	if err != nil {
		return nil, handleStoreError("insert store", err)
	}

	return &result, nil
}

func (r *StoreRepository) Update(ctx context.Context, store *catalog.Store) (*catalog.Store, error) {
	query := `
		UPDATE store SET
			store_name = $2, address = $3, postcode = $4, latitude = $5,
			longitude = $6, status = $7, updated_date = $8, version = version + 1
		WHERE uid = $1
		RETURNING version`

	result := *store
	err := r.db.QueryRow(ctx, query,
		store.UID, store.Name, store.Address, store.Postcode, store.Latitude,
		store.Longitude, store.Status, store.UpdatedAt).Scan(&result.Version)
	if err != nil {
		return nil, handleStoreError("update store", err)
	}

	return &result, nil
}

func (r *StoreRepository) FindByUID(ctx context.Context, uid int64) (*catalog.Store, error) {
	query := `
		SELECT uid, store_name, address, postcode, latitude, longitude, status, created_date, updated_date, version
		FROM store WHERE uid = $1`

	var store catalog.Store
	err := r.db.QueryRow(ctx, query, uid).Scan(
		&store.UID, &store.Name, &store.Address, &store.Postcode, &store.Latitude,
		&store.Longitude, &store.Status, &store.CreatedAt, &store.UpdatedAt,
		&store.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrStoreNotFound
		}
		return nil, handleStoreError("find store", err)
	}

	return &store, nil
}

func (r *StoreRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM store WHERE store_name = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, handleStoreError("exists by name", err)
	}
	return exists, nil
}

func (r *StoreRepository) UpdateStatus(ctx context.Context, uid int64, status catalog.StoreStatus) error {
	query := `UPDATE store SET status = $2, version = version + 1 WHERE uid = $1`

	tag, err := r.db.Exec(ctx, query, uid, status)
	if err != nil {
		return handleStoreError("update store status", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrStoreNotFound
	}
	return nil
}

func (r *StoreRepository) Delete(ctx context.Context, uid int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM store WHERE uid = $1`, uid)
	if err != nil {
		return handleStoreError("delete store", err)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrStoreNotFound
	}
	return nil
}

func (r *StoreRepository) List(ctx context.Context, limit int, lastUID *int64) ([]*catalog.Store, error) {
	var rows pgx.Rows
	var err error

	if lastUID == nil {
		query := `
			SELECT uid, store_name, address, postcode, latitude, longitude, status, created_date, updated_date, version
			FROM store ORDER BY uid ASC LIMIT $1`
		rows, err = r.db.Query(ctx, query, limit)
	} else {
		query := `
			SELECT uid, store_name, address, postcode, latitude, longitude, status, created_date, updated_date, version
			FROM store WHERE uid > $1 ORDER BY uid ASC LIMIT $2`
		rows, err = r.db.Query(ctx, query, *lastUID, limit)
	}
	if err != nil {
		return nil, handleStoreError("list stores", err)
	}
	defer rows.Close()

	var stores []*catalog.Store
	for rows.Next() {
		var store catalog.Store
		if err := rows.Scan(
			&store.UID, &store.Name, &store.Address, &store.Postcode, &store.Latitude,
			&store.Longitude, &store.Status, &store.CreatedAt, &store.UpdatedAt,
			&store.Version); err != nil {
			return nil, handleStoreError("list stores", err)
		}
		stores = append(stores, &store)
	}

	return stores, rows.Err()
}
