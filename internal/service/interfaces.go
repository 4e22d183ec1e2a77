// Package service defines the interfaces the learning engines depend on.
package service

import (
	"context"
	"time"

	"github.com/vimoney/vimoney/internal/model"
)

// CorpusProvider supplies the training corpus for the classifier: recent
// corrections, recent transaction notes, and the current category set.
type CorpusProvider interface {
	// TrainingSamples returns correction samples followed by
	// transaction-derived samples, bounded to the most recent rows.
	TrainingSamples(ctx context.Context) ([]model.TrainingSample, error)
	// Categories returns all active categories.
	Categories(ctx context.Context) ([]model.Category, error)
}

// ModelStore is the key-value persistence port for model blobs
// (vocabulary, category profiles, network weights). Get returns
// common.ErrNotFound when the key has never been written.
type ModelStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Storage is the full contract of the relational corpus store used by the
// CLI. It subsumes CorpusProvider so the engines can share one handle.
type Storage interface {
	CorpusProvider

	// Category operations
	CreateCategory(ctx context.Context, name, icon string) (*model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Transaction operations
	AddTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactions(ctx context.Context, limit int) ([]model.Transaction, error)

	// Correction operations
	AddCorrection(ctx context.Context, c *model.Correction) error
	GetCorrections(ctx context.Context, limit int) ([]model.Correction, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for persistence operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
