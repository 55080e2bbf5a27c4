// Package provider picks the storage backend named by the configuration.
package provider

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/local"
	"github.com/carson-networks/finance-server/internal/storage/postgres"
)

// NewStorage opens the configured backend. The postgres backend is migrated
// to the latest schema before it is returned.
func NewStorage(ctx context.Context, cfg *config.Config) (*storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendLocal:
		store, err := local.Open(cfg.LocalStoragePath)
		if err != nil {
			return nil, err
		}
		logrus.WithField("path", cfg.LocalStoragePath).Info("provider.NewStorage.local")
		return storage.NewStorage(store), nil

	case config.StorageBackendPostgres:
		store, err := postgres.Open(cfg.PostgresConnectionString())
		if err != nil {
			return nil, err
		}
		if err := store.DB().PingContext(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		if err := postgres.Migrate(store.DB()); err != nil {
			_ = store.Close()
			return nil, err
		}
		logrus.WithField("address", cfg.PostgresAddress).Info("provider.NewStorage.postgres")
		return storage.NewStorage(store), nil

	default:
		return nil, fmt.Errorf("provider: unknown storage backend %q", cfg.StorageBackend)
	}
}
