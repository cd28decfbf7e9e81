package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daehwan-lim/menu-catalog/pkg/catalog"
	memoryevent "github.com/daehwan-lim/menu-catalog/pkg/catalog/event/memory"
	sqsevent "github.com/daehwan-lim/menu-catalog/pkg/catalog/event/sqs"
	memoryrepo "github.com/daehwan-lim/menu-catalog/pkg/catalog/repo/memory"
	pgrepo "github.com/daehwan-lim/menu-catalog/pkg/catalog/repo/postgres"
	fsstorage "github.com/daehwan-lim/menu-catalog/pkg/catalog/storage/fs"
	memorystorage "github.com/daehwan-lim/menu-catalog/pkg/catalog/storage/memory"
	s3storage "github.com/daehwan-lim/menu-catalog/pkg/catalog/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		Storage:      StorageConfig{Type: "memory"},
		Events:       EventsConfig{Type: "memory"},
	}
}

// ServerConfig represents server configuration for the catalog service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Attachment storage configuration
	Storage StorageConfig

	// Event publisher configuration
	Events EventsConfig
}

// StorageConfig selects and parameterizes the attachment blob store
type StorageConfig struct {
	Type string // "memory", "fs", "s3"

	// fs
	BaseDir string

	// s3
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// EventsConfig selects and parameterizes the event publisher
type EventsConfig struct {
	Type string // "noop", "memory", "sqs"

	// sqs
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Validate checks the configuration for inconsistencies
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("base directory is required for fs storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Events.Type {
	case "noop", "memory", "sqs":
	default:
		return fmt.Errorf("unsupported events type: %s", c.Events.Type)
	}

	return nil
}

// BuildService creates a catalog.Service instance from the server configuration
func (c *ServerConfig) BuildService() (catalog.Service, error) {
	var options []catalog.Option

	items, stores, err := c.buildRepositories()
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}
	options = append(options,
		catalog.WithItemRepository(items),
		catalog.WithStoreRepository(stores))

	blobs, err := c.buildStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to build storage backend: %w", err)
	}
	options = append(options, catalog.WithBlobStore(blobs))

	publisher, err := c.buildPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to build event publisher: %w", err)
	}
	options = append(options, catalog.WithPublisher(publisher))

	return catalog.New(options...)
}

func (c *ServerConfig) buildRepositories() (catalog.ItemRepository, catalog.StoreRepository, error) {
	switch c.DatabaseType {
	case "memory":
		return memoryrepo.NewItemRepository(), memoryrepo.NewStoreRepository(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return pgrepo.NewItemRepositoryWithPool(pool), pgrepo.NewStoreRepositoryWithPool(pool), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func (c *ServerConfig) buildStorage() (catalog.BlobStore, error) {
	switch c.Storage.Type {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.Storage.BaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:          c.Storage.Region,
			Bucket:          c.Storage.Bucket,
			AccessKeyID:     c.Storage.AccessKeyID,
			SecretAccessKey: c.Storage.SecretAccessKey,
			Endpoint:        c.Storage.Endpoint,
			UsePathStyle:    c.Storage.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
}

func (c *ServerConfig) buildPublisher() (catalog.EventPublisher, error) {
	switch c.Events.Type {
	case "noop":
		return catalog.NewNoopPublisher(), nil
	case "memory":
		return memoryevent.New(), nil
	case "sqs":
		return sqsevent.New(sqsevent.Config{
			Region:          c.Events.Region,
			AccessKeyID:     c.Events.AccessKeyID,
			SecretAccessKey: c.Events.SecretAccessKey,
			Endpoint:        c.Events.Endpoint,
		})
	default:
		return nil, fmt.Errorf("unsupported events type: %s", c.Events.Type)
	}
}

// PingPostgres verifies connectivity to Postgres.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
