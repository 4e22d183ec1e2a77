package main

import (
	"context"
	"fmt"

	"github.com/vimoney/vimoney/internal/config"
	"github.com/vimoney/vimoney/internal/storage"
)

// initStorage opens the transaction database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initModelStore opens the Bolt model store holding vocabularies,
// category profiles, and network weights.
func initModelStore() (*storage.BoltStore, error) {
	return storage.NewBoltStore(config.ModelsPath())
}
