package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/vimoney/vimoney/internal/common"
)

var modelBucket = []byte("models")

// BoltStore persists serialized model blobs (vocabularies, category
// profiles, network weights) in a single-file Bolt database. It
// implements service.ModelStore.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the model database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open model store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists(modelBucket)
		return berr
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create model bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Get returns the blob at key, or common.ErrNotFound when absent.
func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(modelBucket).Get([]byte(key))
		if v == nil {
			return common.ErrNotFound
		}
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set writes the blob at key, replacing any previous value.
func (b *BoltStore) Set(ctx context.Context, key string, value []byte) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(modelBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to store model blob %q: %w", key, err)
	}
	return nil
}

// Delete removes the blob at key. Deleting a missing key is not an error.
func (b *BoltStore) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(modelBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete model blob %q: %w", key, err)
	}
	return nil
}

// Keys lists all stored blob keys in byte order.
func (b *BoltStore) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(modelBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list model blobs: %w", err)
	}
	return keys, nil
}

// Close closes the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}
